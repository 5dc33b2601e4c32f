package cli

import (
	"context"
	"fmt"

	"github.com/xabinapal/farmhand/internal/capture"
	"github.com/xabinapal/farmhand/internal/config"
	"github.com/xabinapal/farmhand/internal/device"
	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/profilestore"
	"github.com/xabinapal/farmhand/internal/templates"
)

// backends keeps the concrete stores behind cli.store for commands that need
// backend-specific features.
type backends struct {
	file  *profilestore.FileStore
	cache *profilestore.CachedStore
}

// profileStore opens the configured profile store once per invocation.
func (cli *CLI) profileStore(ctx context.Context) (profile.Store, error) {
	if cli.store != nil {
		return cli.store, nil
	}

	var (
		store profile.Store
		b     = &backends{}
	)
	switch cli.Config.Store.Backend {
	case config.BackendFile, "":
		fs, err := profilestore.NewFileStore(cli.Config.ProfilesDir())
		if err != nil {
			return nil, err
		}
		b.file = fs
		store = fs
	case config.BackendRedis:
		rs, err := profilestore.NewRedisStore(ctx, profilestore.RedisConfig{
			Address:  cli.Config.Store.Redis.Address,
			Password: cli.Config.Store.Redis.Password,
			DB:       cli.Config.Store.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		cli.closers = append(cli.closers, rs)
		store = rs
	default:
		return nil, fmt.Errorf("%w: %q", profilestore.ErrUnknownBackend, cli.Config.Store.Backend)
	}

	if size := cli.Config.Store.CacheSize; size > 0 {
		cached, err := profilestore.NewCachedStore(store, size)
		if err != nil {
			return nil, err
		}
		b.cache = cached
		store = cached
	}

	cli.Logger.Debug().Str("backend", cli.Config.Store.Backend).Msg("profile store opened")
	cli.store, cli.backends = store, b
	return store, nil
}

func (cli *CLI) manager(ctx context.Context) (*profile.Manager, error) {
	store, err := cli.profileStore(ctx)
	if err != nil {
		return nil, err
	}
	return profile.NewManager(store, profile.WithLogger(cli.Logger)), nil
}

func (cli *CLI) catalog() *templates.DirCatalog {
	return templates.NewDirCatalog(cli.Config.TemplatesDir)
}

func (cli *CLI) deviceLink() *device.Link {
	return device.NewLink(cli.Config.Device,
		device.WithSecrets(cli.Keyring),
		device.WithLogger(cli.Logger),
	)
}

// openEditor binds the named profile in a new editor.
func (cli *CLI) openEditor(ctx context.Context, name string, opts ...editor.Option) (*editor.Editor, error) {
	mgr, err := cli.manager(ctx)
	if err != nil {
		return nil, err
	}

	base := []editor.Option{
		editor.WithLogger(cli.Logger),
		editor.WithNotifier(cli.Notifier),
		editor.WithDeviceLink(cli.deviceLink()),
	}
	if cli.Config.TemplatesDir != "" {
		base = append(base, editor.WithTemplateCatalog(cli.catalog()))
	}

	ed := editor.New(mgr, append(base, opts...)...)
	if err := ed.Open(ctx, name); err != nil {
		return nil, err
	}
	return ed, nil
}

// editProfile opens name, applies edit and saves the result.
func (cli *CLI) editProfile(ctx context.Context, name string, edit func(*editor.Editor) error, opts ...editor.Option) (*profile.Profile, error) {
	ed, err := cli.openEditor(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	defer ed.Close()

	if err := edit(ed); err != nil {
		return nil, err
	}
	if !ed.Dirty() {
		return ed.Profile(), nil
	}
	if err := ed.Save(ctx); err != nil {
		return nil, err
	}
	return ed.Profile(), nil
}

// screenshotSource returns the source for field selection from a saved screenshot.
func (cli *CLI) screenshotSource(path string) *capture.FileSource {
	return capture.NewFileSource(path, capture.WithLogger(cli.Logger))
}
