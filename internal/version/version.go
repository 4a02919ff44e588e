package version

// Version contains the application version information.
// This should be set via build-time ldflags in release builds:
// go build -ldflags "-X github.com/docweave/docweave/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Full returns the version string with whatever build metadata is known,
// e.g. "v0.3.0 (a1b2c3d, 2026-01-15T10:00:00Z)".
func Full() string {
	s := Version
	switch {
	case GitCommit != "unknown" && BuildTime != "unknown":
		s += " (" + GitCommit + ", " + BuildTime + ")"
	case GitCommit != "unknown":
		s += " (" + GitCommit + ")"
	}
	return s
}
