// Package version exposes build metadata for the sprintfang binary.
package version

import "runtime/debug"

// Build metadata. Overridden at link time via
// -ldflags "-X .../pkg/version.Version=v1.2.3" on release builds;
// otherwise filled from the embedded module build info.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"

	// Date is the VCS commit timestamp of the build.
	Date = "unknown"
)

// InitBinaryVersion fills Version, Commit and Date from the module build
// info when they were not set by the linker. Safe to call more than once.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "unknown" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}
