// Package version holds the build-time version string, overridable via
// -ldflags "-X github.com/november1306/createmyvpn/internal/version.Version=...".
package version

// Version is the client's version string, set by the release build.
var Version = "dev"
