// Package version composes prerelease version strings and reads them back from
// version assignment lines.
package version

import (
	"github.com/metal-stack/patch-version/pkg/utils"
)

const (
	AlphaSuffix = "a"
	BetaSuffix  = "b"
)

// Compose appends the prerelease suffix to the raw version. Alpha wins over beta.
func Compose(raw string, alpha, beta bool) string {
	suffix := ""
	switch {
	case alpha:
		suffix = AlphaSuffix
	case beta:
		suffix = BetaSuffix
	}
	return raw + suffix
}

// Parse extracts the version from a line like `__version__ = '1.2.3a'`.
func Parse(line string) (string, bool) {
	groups := utils.RegexCapture(utils.VersionAssignmentMatcher, line)
	v, ok := groups["version"]
	return v, ok
}
