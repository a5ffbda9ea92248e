package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the current version of tokenstream.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/tokenstream/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

// GetVersion returns the current version of the binary.
func GetVersion() string {
	return Version
}

// Normalize returns the canonical form of a version string.
//
// Semantic versions are printed without the "v" prefix ("v1.2" becomes "1.2.0").
// Development builds ("main") and strings that are not semantic versions are
// returned trimmed but otherwise unchanged.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "main" {
		return "main"
	}

	parsed, err := semver.NewVersion(v)
	if err != nil {
		return v
	}

	return parsed.String()
}

// UserAgent returns the User-Agent header sent with every stream request.
func UserAgent() string {
	return "tokenstream/" + Normalize(Version)
}
