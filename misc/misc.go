// Package misc exposes the build identity of the running binary.
package misc

import "runtime/debug"

// set by the linker during release builds
var (
	appName = "sdv"
	version = "dev"
)

// GetAppName returns the short program name used for log files, temporary
// directories and report entries.
func GetAppName() string {
	return appName
}

// GetVersion returns the release version, falling back to the main module
// version recorded by the Go toolchain.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

// GetGitHash returns the commit hash recorded in build info, suffixed with
// "-dirty" when the tree had local modifications.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var hash, modified string
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				modified = "-dirty"
			}
		}
	}
	if hash == "" {
		return "unknown"
	}
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash + modified
}
