package version

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/metal-stack/patch-version/pkg/utils"
)

// Semver parses a composed version. Prerelease suffixes like "a", "b" or "rc1" are
// turned into semver prereleases, so that 1.2.3a < 1.2.3b < 1.2.3rc1 < 1.2.3.
func Semver(v string) (*semver.Version, error) {
	groups := utils.RegexCapture(utils.PrereleaseVersionMatcher, v)
	if release, ok := groups["release"]; ok {
		v = release + "-" + groups["phase"]
		if n := groups["number"]; n != "" {
			v += "." + n
		}
	}

	return semver.NewVersion(v)
}

// Extract returns the version rendered into s by the given template, which holds a
// single %s placeholder.
func Extract(template, s string) (string, bool) {
	before, after, found := strings.Cut(template, "%s")
	if !found {
		return "", false
	}

	r, err := regexp.Compile("^" + regexp.QuoteMeta(before) + "(?P<version>.*?)" + regexp.QuoteMeta(after) + "$")
	if err != nil {
		return "", false
	}

	v, ok := utils.RegexCapture(r, s)["version"]
	return v, ok
}
