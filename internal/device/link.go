// Package device reports and manages the adb connection to the game device.
package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xabinapal/farmhand/internal/config"
	"github.com/xabinapal/farmhand/internal/keyring"
)

const defaultCommandTimeout = 10 * time.Second

var (
	// ErrNoDevice indicates no device serial or address is configured.
	ErrNoDevice = errors.New("no device configured")
	// ErrADBNotFound indicates the adb binary cannot be located.
	ErrADBNotFound = errors.New("adb binary not found")
	// ErrNoPairingCode indicates no pairing code is stored for the device.
	ErrNoPairingCode = errors.New("no pairing code stored for device")
)

// State values reported by adb get-state.
const (
	StateDevice       = "device"
	StateOffline      = "offline"
	StateUnauthorized = "unauthorized"
	StateUnknown      = "unknown"
)

// Status describes the device connection.
type Status struct {
	Target    string `json:"target"`
	State     string `json:"state"`
	Connected bool   `json:"connected"`
	Paired    bool   `json:"paired"`
	Error     string `json:"error,omitempty"`
}

// Option configures a Link.
type Option func(*Link)

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) Option {
	return func(l *Link) {
		l.runner = r
	}
}

// WithSecrets sets where pairing codes are kept.
func WithSecrets(s keyring.Store) Option {
	return func(l *Link) {
		l.secrets = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Link) {
		l.logger = logger.With().Str("component", "device").Logger()
	}
}

// WithTimeout bounds each adb invocation.
func WithTimeout(d time.Duration) Option {
	return func(l *Link) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// Link talks to one device through the adb binary.
type Link struct {
	adb     string
	serial  string
	address string

	runner  CommandRunner
	secrets keyring.Store
	logger  zerolog.Logger
	timeout time.Duration
}

// NewLink creates a link for the configured device.
func NewLink(cfg config.DeviceConfig, opts ...Option) *Link {
	l := &Link{
		adb:     cfg.ADB(),
		serial:  cfg.Serial,
		address: cfg.Address,
		runner:  NewCommandRunner(),
		secrets: keyring.DefaultStore(),
		logger:  zerolog.Nop(),
		timeout: defaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Target returns the adb serial used to address the device. A network
// address doubles as the serial once connected.
func (l *Link) Target() string {
	if l.serial != "" {
		return l.serial
	}
	return l.address
}

func (l *Link) run(ctx context.Context, args ...string) (string, error) {
	path, err := l.runner.LookPath(l.adb)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrADBNotFound, err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := l.runner.CommandContext(ctx, path, args...)
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	l.logger.Debug().Strs("args", args).Msg("running adb")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("adb %s: %s", args[0], msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// State returns the adb state of the device.
func (l *Link) State(ctx context.Context) (string, error) {
	target := l.Target()
	if target == "" {
		return StateUnknown, ErrNoDevice
	}

	out, err := l.run(ctx, "-s", target, "get-state")
	if err != nil {
		return StateUnknown, err
	}
	switch out {
	case StateDevice, StateOffline, StateUnauthorized:
		return out, nil
	}
	return StateUnknown, nil
}

// Connected reports whether the device is online and authorised.
func (l *Link) Connected(ctx context.Context) bool {
	state, err := l.State(ctx)
	if err != nil {
		l.logger.Debug().Err(err).Msg("device state unavailable")
		return false
	}
	return state == StateDevice
}

// Status reports the connection state without failing.
func (l *Link) Status(ctx context.Context) Status {
	s := Status{Target: l.Target()}
	state, err := l.State(ctx)
	s.State = state
	s.Connected = err == nil && state == StateDevice
	if err != nil {
		s.Error = err.Error()
	}
	if s.Target != "" {
		if _, err := l.secrets.Get(s.Target); err == nil {
			s.Paired = true
		}
	}
	return s
}

// StorePairingCode keeps the wireless debugging pairing code for the device.
func (l *Link) StorePairingCode(code string) error {
	target := l.Target()
	if target == "" {
		return ErrNoDevice
	}
	if code == "" {
		return errors.New("pairing code cannot be empty")
	}
	return l.secrets.Set(target, code)
}

// ForgetPairingCode removes the stored pairing code.
func (l *Link) ForgetPairingCode() error {
	target := l.Target()
	if target == "" {
		return ErrNoDevice
	}
	return l.secrets.Delete(target)
}

// Connect attaches to a network device, pairing first when pairAddress is set.
func (l *Link) Connect(ctx context.Context, pairAddress string) error {
	if l.address == "" {
		return fmt.Errorf("%w: device.address is required to connect", ErrNoDevice)
	}

	if pairAddress != "" {
		code, err := l.secrets.Get(l.Target())
		if err != nil {
			if errors.Is(err, keyring.ErrSecretNotFound) {
				return ErrNoPairingCode
			}
			return err
		}
		if _, err := l.run(ctx, "pair", pairAddress, code); err != nil {
			return err
		}
		l.logger.Info().Str("address", pairAddress).Msg("paired device")
	}

	out, err := l.run(ctx, "connect", l.address)
	if err != nil {
		return err
	}
	// adb connect exits 0 even when it fails.
	if strings.Contains(out, "failed") || strings.Contains(out, "cannot") {
		return fmt.Errorf("adb connect: %s", out)
	}
	l.logger.Info().Str("address", l.address).Msg("connected device")
	return nil
}

// Version returns the first line of adb version.
func (l *Link) Version(ctx context.Context) (string, error) {
	out, err := l.run(ctx, "version")
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(out, "\n")
	return first, nil
}
