package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func clearPathEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		EnvConfigDir, "XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_CACHE_HOME",
		"HOME", "APPDATA", "LOCALAPPDATA", "USERPROFILE",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestGetPaths(t *testing.T) {
	paths := GetPaths()

	for name, dir := range map[string]string{
		"ConfigDir":   paths.ConfigDir,
		"DataDir":     paths.DataDir,
		"CacheDir":    paths.CacheDir,
		"ConfigFile":  paths.ConfigFile,
		"ProfilesDir": paths.ProfilesDir,
		"LogFile":     paths.LogFile,
	} {
		if dir == "" {
			t.Errorf("%s should not be empty", name)
		}
	}

	if !strings.HasPrefix(paths.ConfigFile, paths.ConfigDir) {
		t.Errorf("ConfigFile %s should be within ConfigDir %s", paths.ConfigFile, paths.ConfigDir)
	}
	if filepath.Base(paths.ConfigFile) != ConfigFileName {
		t.Errorf("ConfigFile should end with %s, got %s", ConfigFileName, filepath.Base(paths.ConfigFile))
	}
	if paths.ProfilesDir != filepath.Join(paths.DataDir, ProfilesDirName) {
		t.Errorf("ProfilesDir %s should be inside DataDir %s", paths.ProfilesDir, paths.DataDir)
	}
}

func TestGetPathsWithEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvConfigDir, tmpDir)

	if got := GetPaths().ConfigDir; got != tmpDir {
		t.Errorf("expected ConfigDir %s, got %s", tmpDir, got)
	}
}

func TestGetPathsXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG not applicable on Windows")
	}
	clearPathEnv(t)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmpDir, "cache"))

	paths := GetPaths()
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", paths.ConfigDir, filepath.Join(tmpDir, "config", AppName)},
		{"data", paths.DataDir, filepath.Join(tmpDir, "data", AppName)},
		{"cache", paths.CacheDir, filepath.Join(tmpDir, "cache", AppName)},
		{"log", paths.LogFile, filepath.Join(tmpDir, "cache", AppName, LogFileName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestGetPathsHome(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Linux layout only")
	}
	clearPathEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	paths := GetPaths()
	if want := filepath.Join(home, ".config", AppName); paths.ConfigDir != want {
		t.Errorf("ConfigDir = %s, want %s", paths.ConfigDir, want)
	}
	if want := filepath.Join(home, ".local", "share", AppName); paths.DataDir != want {
		t.Errorf("DataDir = %s, want %s", paths.DataDir, want)
	}
	if want := filepath.Join(home, ".cache", AppName); paths.CacheDir != want {
		t.Errorf("CacheDir = %s, want %s", paths.CacheDir, want)
	}
}

func TestGetConfigDirMacOSXDGPreference(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("macOS only")
	}
	clearPathEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	if want := filepath.Join(home, "Library", "Application Support", AppName); getConfigDir() != want {
		t.Errorf("getConfigDir() = %s, want %s", getConfigDir(), want)
	}

	xdgPath := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(xdgPath, 0700); err != nil {
		t.Fatal(err)
	}
	if getConfigDir() != xdgPath {
		t.Errorf("getConfigDir() = %s, want existing %s", getConfigDir(), xdgPath)
	}
}

func TestUltimateFallback(t *testing.T) {
	clearPathEnv(t)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", getConfigDir(), filepath.Join(".", "."+AppName)},
		{"data", getDataDir(), filepath.Join(".", "."+AppName, "data")},
		{"cache", getCacheDir(), filepath.Join(".", "."+AppName, "cache")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()
	paths := Paths{
		ConfigDir:   filepath.Join(tmpDir, "config"),
		DataDir:     filepath.Join(tmpDir, "data"),
		CacheDir:    filepath.Join(tmpDir, "cache"),
		ProfilesDir: filepath.Join(tmpDir, "data", "profiles"),
	}

	// Idempotent.
	for i := 0; i < 2; i++ {
		if err := paths.EnsureDirs(); err != nil {
			t.Fatalf("EnsureDirs() failed: %v", err)
		}
	}

	for _, dir := range []string{paths.ConfigDir, paths.DataDir, paths.CacheDir, paths.ProfilesDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s should exist: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0700 {
			t.Errorf("directory %s should have 0700 permissions, got %o", dir, info.Mode().Perm())
		}
	}
}

func TestEnsureDirsError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Permission tests are unreliable on Windows")
	}

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "blockingfile")
	if err := os.WriteFile(filePath, []byte("test"), 0600); err != nil {
		t.Fatalf("failed to create blocking file: %v", err)
	}

	paths := Paths{ConfigDir: filepath.Join(filePath, "config")}
	if err := paths.EnsureDirs(); err == nil {
		t.Error("EnsureDirs() should fail when directory cannot be created")
	}
}
