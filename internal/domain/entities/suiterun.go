package entities

import "time"

// SuiteRun is the raw record of one validation suite invocation, before
// outcome classification. Started is false when the runner process could
// not be launched at all.
type SuiteRun struct {
	Started  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}
