//go:build integration

// Package integration provides integration tests for Farmhand.
package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Corners is a field zone that fits any screenshot of at least 401x301 pixels.
var Corners = []string{"100,100", "400,100", "400,300", "100,300"}

// TestEnv is an isolated home directory for one farmhand test.
type TestEnv struct {
	Home       string
	ConfigDir  string
	DataDir    string
	KeyringDir string
	Binary     string
	extraEnv   []string
}

// NewTestEnv creates an isolated environment with no settings file.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	home := t.TempDir()
	env := &TestEnv{
		Home:       home,
		ConfigDir:  filepath.Join(home, ".config", "farmhand"),
		DataDir:    filepath.Join(home, ".local", "share"),
		KeyringDir: filepath.Join(home, "keyring"),
		Binary:     FarmhandBinaryPath(t),
	}
	for _, dir := range []string{env.ConfigDir, env.DataDir, env.KeyringDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return env
}

// WriteConfig replaces the settings file.
func (e *TestEnv) WriteConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.ConfigDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// SetEnv adds an environment variable to every later run.
func (e *TestEnv) SetEnv(key, value string) {
	e.extraEnv = append(e.extraEnv, key+"="+value)
}

// ProfilesDir returns where the file backend keeps profiles.
func (e *TestEnv) ProfilesDir() string {
	return filepath.Join(e.DataDir, "farmhand", "profiles")
}

// Command prepares a farmhand invocation inside the environment.
func (e *TestEnv) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+e.Home,
		"XDG_CONFIG_HOME="+filepath.Join(e.Home, ".config"),
		"XDG_DATA_HOME="+e.DataDir,
		"XDG_CACHE_HOME="+filepath.Join(e.Home, ".cache"),
		"FARMHAND_CONFIG_DIR=",
		"FARMHAND_PROFILE=",
		"FARMHAND_TEST_KEYRING_DIR="+e.KeyringDir, // Use file-based keyring for tests
	)
	cmd.Env = append(cmd.Env, e.extraEnv...)
	return cmd
}

// Run runs farmhand with the given arguments.
func (e *TestEnv) Run(ctx context.Context, args ...string) (string, string, error) {
	return e.RunWithInput(ctx, "", args...)
}

// RunWithInput runs farmhand with input on stdin.
func (e *TestEnv) RunWithInput(ctx context.Context, input string, args ...string) (string, string, error) {
	cmd := e.Command(ctx, args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// MustRun runs farmhand and fails the test on a non-zero exit.
func (e *TestEnv) MustRun(ctx context.Context, t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.Run(ctx, args...)
	if err != nil {
		t.Fatalf("farmhand %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

// ExitCode returns the process exit code of err, or -1.
func ExitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// FarmhandBinaryPath returns the path to the farmhand binary.
func FarmhandBinaryPath(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("FARMHAND_BINARY"); path != "" {
		return path
	}

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller information")
	}

	// Go up from test/integration to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	binaryPath := filepath.Join(projectRoot, "bin", "farmhand")
	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Fatalf("farmhand binary not found at %s - run 'go build -o bin/farmhand ./cmd/farmhand' first", binaryPath)
	}
	return binaryPath
}
