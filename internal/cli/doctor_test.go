package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{CheckOK, "OK"},
		{CheckWarning, "WARN"},
		{CheckError, "ERROR"},
		{CheckSkipped, "SKIP"},
		{CheckStatus(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("CheckStatus.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckStatus_Icon(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{CheckOK, "[OK]"},
		{CheckWarning, "[!!]"},
		{CheckError, "[XX]"},
		{CheckSkipped, "[--]"},
		{CheckStatus(99), "[??]"},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.Icon(); got != tt.want {
				t.Errorf("CheckStatus.Icon() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeChecks(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []CheckStatus
		wantErrors   bool
		wantWarnings bool
	}{
		{"all ok", []CheckStatus{CheckOK, CheckSkipped}, false, false},
		{"warning", []CheckStatus{CheckOK, CheckWarning}, false, true},
		{"error", []CheckStatus{CheckError, CheckOK}, true, false},
		{"both", []CheckStatus{CheckWarning, CheckError}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []CheckResult
			for _, s := range tt.statuses {
				results = append(results, CheckResult{Name: "check", Status: s})
			}
			out := summarizeChecks(results)
			if out.HasErrors != tt.wantErrors || out.HasWarnings != tt.wantWarnings {
				t.Errorf("summarizeChecks() = errors %v warnings %v, want %v %v",
					out.HasErrors, out.HasWarnings, tt.wantErrors, tt.wantWarnings)
			}
		})
	}
}

func findCheck(results []CheckResult, name string) (CheckResult, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return CheckResult{}, false
}

func TestDoctorWithoutDevice(t *testing.T) {
	env := newTestEnv(t)
	env.ready("east")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "market"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "market", "stand.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}
	env.cfg.TemplatesDir = dir
	env.mustRun("template", "set", "market/stand.png", "0.8")
	env.mustRun("template", "set", "offer/gone.png", "0.8", "--force")

	out, err := env.run("-o", "json", "doctor", "--skip-device")
	if err == nil {
		t.Fatal("doctor passed with a missing template")
	}

	var got DoctorOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !got.HasErrors {
		t.Error("HasErrors = false")
	}

	want := map[string]CheckStatus{
		"Settings file":     CheckOK,
		"Profile store":     CheckOK,
		"Current profile":   CheckOK,
		"Keyring":           CheckOK,
		"Templates":         CheckOK,
		"Enabled templates": CheckError,
	}
	for name, status := range want {
		r, ok := findCheck(got.Checks, name)
		if !ok {
			t.Errorf("check %q missing", name)
			continue
		}
		if r.Status != status {
			t.Errorf("check %q = %v (%s), want %v", name, r.Status, r.Message, status)
		}
	}
	if r, _ := findCheck(got.Checks, "Enabled templates"); !strings.Contains(r.Message, "offer/gone.png") {
		t.Errorf("Enabled templates message = %q, want the missing id", r.Message)
	}
	if _, ok := findCheck(got.Checks, "adb binary"); ok {
		t.Error("adb check ran with --skip-device")
	}
}

func TestDoctorReportsProblems(t *testing.T) {
	env := newTestEnv(t)
	env.keys.SetFailing(true)
	env.mustRun("profile", "create", "east", "--use")

	out, err := env.run("doctor", "--skip-device", "--verbose")
	if err == nil {
		t.Fatal("doctor passed with an invalid current profile")
	}
	for _, want := range []string{
		"[!!] Profile store",
		"[XX] Current profile: 'east' has 1 problem(s)",
		"[!!] Keyring",
		"[!!] Templates: templates_dir not set",
		"-> Run 'farmhand profile validate' for details",
		"Some checks failed.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
