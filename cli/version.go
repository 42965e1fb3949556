package cli

import "runtime/debug"

// version may be set with
// -ldflags "-X github.com/brimdata/yxdb/cli.version=...".
var version string

// Version returns the version reported by "yxdb --version": the linker
// supplied version if any, else the main module version from the build
// information, else "unknown".
func Version() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		// "(devel)" unless built by "go install PACKAGE@VERSION".
		return info.Main.Version
	}
	return "unknown"
}
