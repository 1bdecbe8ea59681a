// Package version exposes build metadata, overwritten at release time via
// -ldflags "-X .../internal/version.Version=v1.2.3" and friends.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
