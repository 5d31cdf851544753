// FILE: logfan/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at compile time via -ldflags; fall back to module build
// info when built without them.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Returns a formatted version string for banners and -version output.
func String() string {
	commit, stamp := GitCommit, BuildTime
	if commit == "" || stamp == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					if commit == "" {
						commit = s.Value
					}
				case "vcs.time":
					if stamp == "" {
						stamp = s.Value
					}
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if stamp == "" {
		stamp = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, stamp)
}
