package utils

import "regexp"

var (
	PrereleaseVersionMatcher = regexp.MustCompile(`^v?(?P<release>\d+(?:\.\d+)*)(?P<phase>a|b|rc)(?P<number>\d*)$`)
	VersionAssignmentMatcher = regexp.MustCompile(`^\s*__version__\s*=\s*['"](?P<version>[^'"]*)['"]\s*$`)
)

func RegexCapture(r *regexp.Regexp, s string) (groups map[string]string) {
	match := r.FindStringSubmatch(s)

	groups = make(map[string]string)
	for i, name := range r.SubexpNames() {
		if i == 0 && len(match) > 0 {
			groups["full_match"] = match[i]
		}
		if i > 0 && i < len(match) {
			groups[name] = match[i]
		}
	}

	return
}
