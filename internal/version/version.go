// Package version carries build metadata stamped in via -ldflags.
package version

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String returns the version line printed by the version subcommand and
// logged at service startup.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
