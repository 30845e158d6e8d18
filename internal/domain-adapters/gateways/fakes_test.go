package gateways

import (
	"context"
	"strings"
)

// fakeRunner records command specs and replays canned results keyed by the
// first matching argv fragment.
type fakeRunner struct {
	specs   []CommandSpec
	results map[string]*CommandResult
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]*CommandResult),
	}
}

func (f *fakeRunner) Run(_ context.Context, spec CommandSpec) *CommandResult {
	f.specs = append(f.specs, spec)

	line := spec.Prog + " " + strings.Join(spec.Args, " ")
	for key, result := range f.results {
		if strings.Contains(line, key) {
			return result
		}
	}
	return &CommandResult{Success: true, Started: true}
}

func (f *fakeRunner) lastSpec() CommandSpec {
	return f.specs[len(f.specs)-1]
}

func argLine(spec CommandSpec) string {
	return spec.Prog + " " + strings.Join(spec.Args, " ")
}
