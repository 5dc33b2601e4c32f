package profilestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xabinapal/farmhand/internal/profile"
)

// Redis key layout.
const (
	// KeyProfile holds one profile document.
	KeyProfile = "farmhand:profile:%s"
	// KeyProfileNames is the set of stored profile names.
	KeyProfileNames = "farmhand:profiles"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// RedisStore keeps profile documents in Redis so several machines can share them.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis at %s unreachable: %v", profile.ErrPersistence, cfg.Address, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func profileKey(name string) string {
	return fmt.Sprintf(KeyProfile, name)
}

// List implements profile.Store.
func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, KeyProfileNames).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list profiles: %v", profile.ErrPersistence, err)
	}
	return names, nil
}

// Get implements profile.Store.
func (r *RedisStore) Get(ctx context.Context, name string) (*profile.Profile, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, profileKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %q", profile.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: failed to read profile %q: %v", profile.ErrPersistence, name, err)
	}

	return Decode(name, data)
}

// Create implements profile.Store.
func (r *RedisStore) Create(ctx context.Context, name string, p *profile.Profile) error {
	if err := checkName(name); err != nil {
		return err
	}

	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrPersistence, err)
	}

	created, err := r.client.SetNX(ctx, profileKey(name), data, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: failed to create profile %q: %v", profile.ErrPersistence, name, err)
	}
	if !created {
		return fmt.Errorf("%w: %q", profile.ErrDuplicateName, name)
	}

	if err := r.client.SAdd(ctx, KeyProfileNames, name).Err(); err != nil {
		return fmt.Errorf("%w: failed to index profile %q: %v", profile.ErrPersistence, name, err)
	}
	return nil
}

// Put implements profile.Store.
func (r *RedisStore) Put(ctx context.Context, name string, p *profile.Profile) error {
	if err := checkName(name); err != nil {
		return err
	}

	data, err := Encode(p)
	if err != nil {
		return fmt.Errorf("%w: %v", profile.ErrPersistence, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, profileKey(name), data, 0)
		pipe.SAdd(ctx, KeyProfileNames, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to store profile %q: %v", profile.ErrPersistence, name, err)
	}
	return nil
}

// Delete implements profile.Store.
func (r *RedisStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, profileKey(name))
		pipe.SRem(ctx, KeyProfileNames, name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete profile %q: %v", profile.ErrPersistence, name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %q", profile.ErrNotFound, name)
	}
	return nil
}
