// Package actions reports the outcome of a patch run to the GitHub Actions runner
// through workflow commands.
package actions

import (
	"sort"

	"github.com/sethvargo/go-githubactions"
)

type Reporter struct {
	action *githubactions.Action
}

func NewReporter(opts ...githubactions.Option) *Reporter {
	return &Reporter{
		action: githubactions.New(opts...),
	}
}

// Fail marks the step as failed. The process still has to exit non-zero.
func (r *Reporter) Fail(err error) {
	r.action.Errorf("%s", err.Error())
}

// Outputs sets step outputs. Without an output file, e.g. outside of GitHub Actions,
// nothing is written and false is returned.
func (r *Reporter) Outputs(outputs map[string]string) bool {
	if r.action.Getenv("GITHUB_OUTPUT") == "" {
		return false
	}

	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		r.action.SetOutput(k, outputs[k])
	}

	return true
}
