// Package version holds the tool version, overridable at build time via
// -ldflags "-X github.com/hardwaylabs/jwt-hack/pkg/version.Version=...".
package version

var Version = "2.1.0"
