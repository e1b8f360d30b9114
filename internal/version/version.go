// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report a release tag when stamped, the VCS revision otherwise.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is stamped at release time with -ldflags "-X .../version.Version=v1.2.3".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version, or the short VCS revision from the
// embedded build info ("dev" when neither is available).
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}

	revision := ""
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
		return "dev"
	}
	if dirty {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
