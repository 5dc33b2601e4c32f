//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestProfile_CreateEditValidate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	env := NewTestEnv(t)

	stdout := env.MustRun(ctx, t, "profile", "create", "east", "--use")
	if !strings.Contains(stdout, "Profile 'east' created.") {
		t.Errorf("expected creation message, got: %s", stdout)
	}
	if _, err := os.Stat(filepath.Join(env.ProfilesDir(), "east.yaml")); err != nil {
		t.Fatalf("profile document not written: %v", err)
	}

	// A fresh profile has no field zone, so it does not validate.
	stdout, _, err := env.Run(ctx, "profile", "validate")
	if code := ExitCode(err); code != 2 {
		t.Errorf("validate exit code = %d, want 2\nstdout: %s", code, stdout)
	}
	if !strings.Contains(stdout, "field_zone.polygon is not set") {
		t.Errorf("expected field zone problem, got: %s", stdout)
	}

	env.MustRun(ctx, t, append([]string{"field", "set"}, Corners...)...)
	env.MustRun(ctx, t, "preset", "apply", "market", "Safe")
	env.MustRun(ctx, t, "profile", "set", "farming_timing.wheat_growth_time=240")

	stdout = env.MustRun(ctx, t, "profile", "validate")
	if !strings.Contains(stdout, "[OK] east") {
		t.Errorf("expected valid profile, got: %s", stdout)
	}

	stdout = env.MustRun(ctx, t, "profile", "show")
	for _, want := range []string{"Timing preset:  Safe", "Wheat growth:   4m", "Area:    60,000 px²"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in show output, got: %s", want, stdout)
		}
	}
}

func TestProfile_RejectedSaveKeepsDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	env := NewTestEnv(t)

	env.MustRun(ctx, t, "profile", "create", "east", "--use")
	env.MustRun(ctx, t, append([]string{"field", "set"}, Corners...)...)

	path := filepath.Join(env.ProfilesDir(), "east.yaml")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	_, stderr, err := env.Run(ctx, "profile", "set", "cycle_settings.market_cycle_interval=60")
	if err == nil {
		t.Fatal("expected out-of-range value to be rejected")
	}
	if !strings.Contains(stderr, "cycle_settings.market_cycle_interval") {
		t.Errorf("expected the failing key in the error, got: %s", stderr)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("profile document changed after a rejected save")
	}
}

func TestProfile_ExportImportUse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	env := NewTestEnv(t)

	env.MustRun(ctx, t, "profile", "create", "east", "--use")
	env.MustRun(ctx, t, append([]string{"field", "set"}, Corners...)...)

	file := filepath.Join(t.TempDir(), "west.yaml")
	env.MustRun(ctx, t, "profile", "export", "east", file)
	env.MustRun(ctx, t, "profile", "import", file)

	stdout := env.MustRun(ctx, t, "profile", "use", "west")
	if !strings.Contains(stdout, "Switched to profile 'west'") {
		t.Errorf("expected switch message, got: %s", stdout)
	}

	stdout = env.MustRun(ctx, t, "profile", "list")
	if !strings.Contains(stdout, "* west") || !strings.Contains(stdout, "east") {
		t.Errorf("expected both profiles with west current, got: %s", stdout)
	}

	// FARMHAND_PROFILE overrides the stored selection.
	env.SetEnv("FARMHAND_PROFILE", "east")
	stdout = env.MustRun(ctx, t, "profile", "list")
	if !strings.Contains(stdout, "* east") {
		t.Errorf("expected east current through the environment, got: %s", stdout)
	}
}

func TestProfile_HandEditedDocument(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	env := NewTestEnv(t)

	env.MustRun(ctx, t, "profile", "create", "east")
	path := filepath.Join(env.ProfilesDir(), "east.yaml")
	if err := os.WriteFile(path, []byte("field_zone: [not: valid"), 0600); err != nil {
		t.Fatal(err)
	}

	stdout := env.MustRun(ctx, t, "profile", "list")
	if !strings.Contains(stdout, "unreadable") {
		t.Errorf("expected unreadable profile in list, got: %s", stdout)
	}

	_, stderr, err := env.Run(ctx, "profile", "show", "east")
	if err == nil || !strings.Contains(stderr, "profile not found") {
		t.Errorf("expected not found error, got: %v %s", err, stderr)
	}
}
