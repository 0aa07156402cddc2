// Package buildinfo contains build information.
//
// Build information can be overridden during compilation by passing
// -ldflags "-X src.mcfn.dev/pkg/buildinfo.VCSOverride=value" to "go build".
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"time"
)

// VersionBase is the version of the next release.
const VersionBase = "0.3.0"

// VCSOverride, if non-empty, replaces the VCS information of development
// builds. It has the form "20220401235958-123456789012".
var VCSOverride string

// Info describes a build.
type Info struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains the build information of this binary.
var Value = Info{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	// If mcfn is built as a module dependency, use the module version.
	if v := bi.Main.Version; v != "" && v != "(devel)" && len(v) > 1 {
		return v[1:]
	}
	var revision, timestamp string
	var modified bool
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			timestamp = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	version := next + "-dev.0." + t.UTC().Format("20060102150405") + "-" + revision
	if modified {
		version += "-dirty"
	}
	return version
}
