package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xabinapal/farmhand/internal/utils"
)

// Store persists profiles by name. Implementations must be safe for concurrent
// use and must return ErrNotFound for unknown names.
type Store interface {
	// List returns the names of all stored profiles in any order.
	List(ctx context.Context) ([]string, error)
	// Get returns the stored profile. Unparsable documents report ErrNotFound.
	Get(ctx context.Context, name string) (*Profile, error)
	// Create stores p only if name is not taken, else ErrDuplicateName.
	Create(ctx context.Context, name string, p *Profile) error
	// Put stores p, replacing any previous version as a whole.
	Put(ctx context.Context, name string, p *Profile) error
	// Delete removes the profile or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger.With().Str("component", "profile_manager").Logger()
	}
}

// WithValidateConcurrency bounds how many profiles ValidateAll loads at once.
func WithValidateConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.validateConcurrency = n
		}
	}
}

// Manager owns the named profile store: defaulting, validation and
// whole-profile replacement.
type Manager struct {
	store  Store
	logger zerolog.Logger

	validateConcurrency int

	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:               store,
		logger:              zerolog.Nop(),
		validateConcurrency: 4,
		locks:               make(map[string]*nameLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// lock serialises operations on one name and returns the matching unlock.
func (m *Manager) lock(name string) func() {
	m.mu.Lock()
	l, ok := m.locks[name]
	if !ok {
		l = &nameLock{}
		m.locks[name] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, name)
		}
		m.mu.Unlock()
	}
}

// List returns all profile names sorted. An empty result is not an error.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	names, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

// CreateDefault stores and returns a new profile with default values.
// The default has no field zone, so it must be edited before it validates.
func (m *Manager) CreateDefault(ctx context.Context, name string) (*Profile, error) {
	if !utils.IsValidProfileName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	unlock := m.lock(name)
	defer unlock()

	p := Default()
	if err := m.store.Create(ctx, name, p); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return nil, err
	}

	m.logger.Info().Str("profile", name).Msg("created profile with defaults")
	return p.Clone(), nil
}

// Load returns the named profile.
func (m *Manager) Load(ctx context.Context, name string) (*Profile, error) {
	unlock := m.lock(name)
	defer unlock()

	p, err := m.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.logger.Debug().Str("profile", name).Err(err).Msg("profile not loadable")
		}
		return nil, err
	}
	return p, nil
}

// Save validates p and, only if it is valid, replaces the stored profile.
// On a validation failure nothing is written and a *ValidationError is returned.
func (m *Manager) Save(ctx context.Context, name string, p *Profile) error {
	if !utils.IsValidProfileName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if problems := Validate(p); len(problems) > 0 {
		m.logger.Warn().Str("profile", name).Strs("problems", problems).Msg("rejected invalid profile")
		return &ValidationError{Problems: problems}
	}

	unlock := m.lock(name)
	defer unlock()

	if err := m.store.Put(ctx, name, p.Clone()); err != nil {
		m.logger.Error().Str("profile", name).Err(err).Msg("failed to save profile")
		return err
	}

	m.logger.Info().Str("profile", name).Msg("saved profile")
	return nil
}

// Delete removes the named profile. Deleting is irreversible.
func (m *Manager) Delete(ctx context.Context, name string) error {
	unlock := m.lock(name)
	defer unlock()

	if err := m.store.Delete(ctx, name); err != nil {
		return err
	}

	m.logger.Info().Str("profile", name).Msg("deleted profile")
	return nil
}

// Validate returns the rule violations of p. An empty result means valid.
func (m *Manager) Validate(p *Profile) []string {
	return Validate(p)
}

// ValidateAll loads every stored profile and validates it.
// Profiles that cannot be loaded are reported with the load error as their only problem.
func (m *Manager) ValidateAll(ctx context.Context) (map[string][]string, error) {
	names, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.validateConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			p, err := m.Load(gctx, name)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					results[i] = []string{err.Error()}
					return nil
				}
				return err
			}
			results[i] = Validate(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := make(map[string][]string, len(names))
	for i, name := range names {
		report[name] = results[i]
	}
	return report, nil
}
