// Package config provides application settings and directory layout for farmhand.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name used for directories.
	AppName = "farmhand"
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "config.yaml"
	// ProfilesDirName is the data subdirectory holding profile documents.
	ProfilesDirName = "profiles"
	// LogFileName is the default log file name inside the cache directory.
	LogFileName = "farmhand.log"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "FARMHAND_CONFIG_DIR"
	// EnvProfile overrides the current profile.
	EnvProfile = "FARMHAND_PROFILE"
)

// Paths holds all the application paths.
type Paths struct {
	ConfigDir   string
	DataDir     string
	CacheDir    string
	ConfigFile  string
	ProfilesDir string
	LogFile     string
}

// GetPaths returns the application paths following the XDG Base Directory layout.
func GetPaths() Paths {
	configDir := getConfigDir()
	dataDir := getDataDir()
	cacheDir := getCacheDir()
	return Paths{
		ConfigDir:   configDir,
		DataDir:     dataDir,
		CacheDir:    cacheDir,
		ConfigFile:  filepath.Join(configDir, ConfigFileName),
		ProfilesDir: filepath.Join(dataDir, ProfilesDirName),
		LogFile:     filepath.Join(cacheDir, LogFileName),
	}
}

// baseDir describes where one kind of directory lives on each platform.
type baseDir struct {
	xdgEnv     string
	xdgHome    []string // relative to $HOME
	darwinHome []string // relative to $HOME
	winEnv     string
	winProfile []string // relative to %USERPROFILE%
	winSuffix  []string
	fallback   []string
}

func (b baseDir) resolve() string {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv(b.winEnv); dir != "" {
			return filepath.Join(append([]string{dir, AppName}, b.winSuffix...)...)
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			parts := append([]string{userProfile}, b.winProfile...)
			parts = append(parts, AppName)
			return filepath.Join(append(parts, b.winSuffix...)...)
		}
	case "darwin":
		if dir := os.Getenv(b.xdgEnv); dir != "" {
			return filepath.Join(dir, AppName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(append(append([]string{home}, b.darwinHome...), AppName)...)
		}
	default:
		if dir := os.Getenv(b.xdgEnv); dir != "" {
			return filepath.Join(dir, AppName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(append(append([]string{home}, b.xdgHome...), AppName)...)
		}
	}

	return filepath.Join(append([]string{".", "." + AppName}, b.fallback...)...)
}

var (
	configBase = baseDir{
		xdgEnv:     "XDG_CONFIG_HOME",
		xdgHome:    []string{".config"},
		darwinHome: []string{"Library", "Application Support"},
		winEnv:     "APPDATA",
		winProfile: []string{"AppData", "Roaming"},
	}
	dataBase = baseDir{
		xdgEnv:     "XDG_DATA_HOME",
		xdgHome:    []string{".local", "share"},
		darwinHome: []string{"Library", "Application Support"},
		winEnv:     "LOCALAPPDATA",
		winProfile: []string{"AppData", "Local"},
		fallback:   []string{"data"},
	}
	cacheBase = baseDir{
		xdgEnv:     "XDG_CACHE_HOME",
		xdgHome:    []string{".cache"},
		darwinHome: []string{"Library", "Caches"},
		winEnv:     "LOCALAPPDATA",
		winProfile: []string{"AppData", "Local"},
		winSuffix:  []string{"cache"},
		fallback:   []string{"cache"},
	}
)

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}

	// macOS users who already keep ~/.config/farmhand keep using it.
	if runtime.GOOS == "darwin" && os.Getenv("XDG_CONFIG_HOME") == "" {
		if home := os.Getenv("HOME"); home != "" {
			xdgPath := filepath.Join(home, ".config", AppName)
			if _, err := os.Stat(xdgPath); err == nil {
				return xdgPath
			}
		}
	}

	return configBase.resolve()
}

func getDataDir() string {
	return dataBase.resolve()
}

func getCacheDir() string {
	return cacheBase.resolve()
}

// EnsureDirs creates all necessary directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir, p.ProfilesDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
