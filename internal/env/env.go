// Package env carries build-time metadata injected via -ldflags, the
// way the teacher's CLI entry point expects it to.
package env

// Version, CommitHash and BuildTime are overridden at build time with
// -ldflags "-X github.com/ostafen/storagefs/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
