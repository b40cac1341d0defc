// Package version resolves the docweaver version string.
//
// Release builds substitute the literal at link time:
//
//	go build -ldflags "-X main.packageVersion=3.4.1"
//
// Builds that leave the Placeholder in place fall back to the VERSION marker
// file embedded into the binary.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ServiceKey is the container key of the resolved version string.
const ServiceKey = "app.version"

// Placeholder is the literal a build leaves behind when nothing was
// substituted.
const Placeholder = "@package_version@"

// Development is reported when neither the literal nor the marker carry a
// version.
const Development = "dev"

// Resolve returns literal when it was substituted at build time, the trimmed
// marker content otherwise.
func Resolve(literal string, marker []byte) string {
	literal = strings.TrimSpace(literal)
	if literal != "" && literal != Placeholder {
		return literal
	}
	if v := strings.TrimSpace(string(marker)); v != "" {
		return v
	}
	return Development
}

// IsRelease reports whether v names a published release: a semantic version
// whose pre-release part, if any, is not a development marker.
func IsRelease(v string) bool {
	parsed, err := semver.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return !strings.HasSuffix(parsed.Prerelease(), Development)
}
