// Package version reports build information for farmhand.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ProfileFormat is the revision of the profile document layout written by this build.
const ProfileFormat = 1

// Info describes the running binary.
type Info struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	ProfileFormat int    `json:"profile_format"`
}

// Get returns the build information. Binaries installed with `go install`
// carry no ldflags, so the module version and VCS revision fill the gaps.
func Get() Info {
	info := Info{
		Version:       Version,
		Commit:        Commit,
		Date:          Date,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		ProfileFormat: ProfileFormat,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && len(s.Value) >= 7 {
				info.Commit = s.Value[:7]
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
}

// String returns the full version line.
func (i Info) String() string {
	return fmt.Sprintf("farmhand %s (%s) built on %s with %s for %s",
		i.Version, i.Commit, i.Date, i.GoVersion, i.Platform)
}

// Short returns the name and version.
func (i Info) Short() string {
	return "farmhand " + i.Version
}
