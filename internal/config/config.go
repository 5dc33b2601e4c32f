package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidBinaryPath indicates the adb binary path is not safe to execute.
	ErrInvalidBinaryPath = errors.New("invalid binary path")
	// ErrInvalidAddress indicates a host:port address could not be parsed.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidBackend indicates an unsupported profile store backend.
	ErrInvalidBackend = errors.New("invalid store backend")
	// ErrInvalidLogLevel indicates an unknown logging level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Profile store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	// DefaultCacheSize is the number of profiles kept decoded in memory.
	DefaultCacheSize = 32
	// DefaultADBPath is the adb binary looked up in PATH.
	DefaultADBPath = "adb"
	// DefaultLogMaxSize is the log size in MB before rotation.
	DefaultLogMaxSize = 10
)

// RedisConfig holds the Redis connection used by the redis backend.
type RedisConfig struct {
	Address  string `yaml:"address,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// StoreConfig selects where profiles are persisted.
type StoreConfig struct {
	// Backend is "file" (default) or "redis".
	Backend string      `yaml:"backend,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
	// Dir overrides the profile directory of the file backend.
	Dir string `yaml:"dir,omitempty"`
	// CacheSize bounds the decoded profile cache. Zero disables caching.
	CacheSize int `yaml:"cache_size,omitempty"`
}

// DeviceConfig identifies the Android device running the game.
type DeviceConfig struct {
	// Serial is the adb serial of the device.
	Serial string `yaml:"serial,omitempty"`
	// Address is the host:port used for adb over TCP.
	Address string `yaml:"address,omitempty"`
	// ADBPath is an optional custom path to the adb binary.
	ADBPath string `yaml:"adb_path,omitempty"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
	JSON  bool   `yaml:"json,omitempty"`
	// MaxSize is the log file size in MB before rotation.
	MaxSize int `yaml:"max_size,omitempty"`
}

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	Enabled   bool `yaml:"enabled,omitempty"`
	OnSave    bool `yaml:"on_save,omitempty"`
	OnFailure bool `yaml:"on_failure,omitempty"`
	// Icon is an image shown with each notice; ignored when the file is missing.
	Icon string `yaml:"icon,omitempty"`
}

// Config represents the farmhand application settings.
type Config struct {
	// Current is the name of the active profile.
	Current string `yaml:"current,omitempty"`
	// Store configures profile persistence.
	Store StoreConfig `yaml:"store,omitempty"`
	// TemplatesDir is the root of the detection template tree.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	// Device identifies the game device.
	Device DeviceConfig `yaml:"device,omitempty"`
	// Logging configures the logger.
	Logging LoggingConfig `yaml:"logging,omitempty"`
	// Notifications configures desktop notices.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// filePath is the path where this config was loaded from.
	filePath string `yaml:"-"`
}

// Default returns a new Config with default values.
func Default() *Config {
	paths := GetPaths()
	return &Config{
		Store: StoreConfig{
			Backend:   BackendFile,
			CacheSize: DefaultCacheSize,
		},
		Device: DeviceConfig{
			ADBPath: DefaultADBPath,
		},
		Logging: LoggingConfig{
			Level:   "info",
			MaxSize: DefaultLogMaxSize,
		},
		Notifications: NotificationConfig{
			Enabled:   false,
			OnSave:    true,
			OnFailure: true,
		},
		filePath: paths.ConfigFile,
	}
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetPaths().ConfigFile)
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	if cfg.Device.ADBPath == "" {
		cfg.Device.ADBPath = DefaultADBPath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Save writes the configuration to its file path.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FilePath returns the path where this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}

// ProfilesDir returns the directory of the file backend.
func (c *Config) ProfilesDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return GetPaths().ProfilesDir
}

// LogFile returns the configured log file, or "" to log to stderr.
func (c *Config) LogFile() string {
	return c.Logging.File
}

// CurrentProfile returns the active profile, preferring the FARMHAND_PROFILE override.
func (c *Config) CurrentProfile() string {
	if name := os.Getenv(EnvProfile); name != "" {
		return name
	}
	return c.Current
}

// Validate checks the settings for values that would fail at use time.
// Every problem is reported.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendFile, "":
	case BackendRedis:
		if err := validateHostPort(c.Store.Redis.Address); err != nil {
			errs = append(errs, fmt.Errorf("store.redis.address: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBackend, c.Store.Backend))
	}
	if c.Store.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("store.cache_size must not be negative, got %d", c.Store.CacheSize))
	}

	if c.Device.Address != "" {
		if err := validateHostPort(c.Device.Address); err != nil {
			errs = append(errs, fmt.Errorf("device.address: %w", err))
		}
	}
	if err := c.Device.ValidateADBPath(); err != nil {
		errs = append(errs, fmt.Errorf("device.adb_path: %w", err))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}
	if c.Logging.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("logging.max_size must not be negative, got %d", c.Logging.MaxSize))
	}

	return errors.Join(errs...)
}

func validateHostPort(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidAddress)
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("%w: %q must be host:port", ErrInvalidAddress, addr)
	}
	return nil
}

// ADB returns the adb binary to execute.
func (d *DeviceConfig) ADB() string {
	if d.ADBPath != "" {
		return d.ADBPath
	}
	return DefaultADBPath
}

// ValidateADBPath validates that the adb path is safe to execute.
// A bare binary name is looked up in PATH; a custom path must be an absolute,
// clean path to an executable regular file that is not a symlink.
func (d *DeviceConfig) ValidateADBPath() error {
	binaryPath := d.ADBPath
	if binaryPath == "" || binaryPath == filepath.Base(binaryPath) {
		return nil
	}

	if !filepath.IsAbs(binaryPath) {
		return fmt.Errorf("%w: custom binary path must be absolute, got %q", ErrInvalidBinaryPath, binaryPath)
	}
	if strings.Contains(binaryPath, "..") || filepath.Clean(binaryPath) != binaryPath {
		return fmt.Errorf("%w: binary path contains suspicious components", ErrInvalidBinaryPath)
	}

	// Lstat so a symlink is seen as such.
	info, err := os.Lstat(binaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: binary not found at %q", ErrInvalidBinaryPath, binaryPath)
		}
		return fmt.Errorf("%w: cannot access binary at %q: %v", ErrInvalidBinaryPath, binaryPath, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %q is a symlink", ErrInvalidBinaryPath, binaryPath)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrInvalidBinaryPath, binaryPath)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("%w: %q is not executable", ErrInvalidBinaryPath, binaryPath)
	}

	return nil
}
