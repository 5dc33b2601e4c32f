package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %s, want %s", info.Platform, want)
	}
	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.ProfileFormat != ProfileFormat {
		t.Errorf("ProfileFormat = %d, want %d", info.ProfileFormat, ProfileFormat)
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	tests := []struct {
		name       string
		info       Info
		bi         debug.BuildInfo
		wantVer    string
		wantCommit string
		wantDate   string
	}{
		{
			name: "go install build",
			info: Info{Version: "dev", Commit: "unknown", Date: "unknown"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			},
			wantVer:    "v1.2.0",
			wantCommit: "0123456",
			wantDate:   "2026-01-02T03:04:05Z",
		},
		{
			name:       "ldflags win",
			info:       Info{Version: "v2.0.0", Commit: "abc1234", Date: "2026-05-01"},
			bi:         debug.BuildInfo{Main: debug.Module{Version: "v1.0.0"}, Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fffffffffff"}}},
			wantVer:    "v2.0.0",
			wantCommit: "abc1234",
			wantDate:   "2026-05-01",
		},
		{
			name:       "devel build",
			info:       Info{Version: "dev", Commit: "unknown", Date: "unknown"},
			bi:         debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer:    "dev",
			wantCommit: "unknown",
			wantDate:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			fillFromBuildInfo(&info, &tt.bi)
			if info.Version != tt.wantVer || info.Commit != tt.wantCommit || info.Date != tt.wantDate {
				t.Errorf("got %s/%s/%s, want %s/%s/%s", info.Version, info.Commit, info.Date, tt.wantVer, tt.wantCommit, tt.wantDate)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc1234", Date: "2026-01-01", GoVersion: "go1.24", Platform: "linux/amd64"}

	want := "farmhand v1.0.0 (abc1234) built on 2026-01-01 with go1.24 for linux/amd64"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := info.Short(); !strings.HasPrefix(got, "farmhand ") || !strings.HasSuffix(got, "v1.0.0") {
		t.Errorf("Short() = %q", got)
	}
}
