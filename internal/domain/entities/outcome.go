package entities

import "time"

// ValidationStatus classifies the aggregate result of a validation run.
type ValidationStatus int

const (
	// ValidationPassed means every test in the targeted suite passed.
	ValidationPassed ValidationStatus = iota
	// ValidationFailed means the suite ran but at least one test failed.
	// This is a normal outcome, not a harness malfunction.
	ValidationFailed
	// ValidationExecError means the runner itself could not execute the
	// suite (missing interpreter, corrupted environment, usage error).
	ValidationExecError
)

// String returns a human-readable status label.
func (s ValidationStatus) String() string {
	switch s {
	case ValidationPassed:
		return "passed"
	case ValidationFailed:
		return "failed"
	case ValidationExecError:
		return "exec-error"
	default:
		return "unknown"
	}
}

// TestDuration is one entry of the slowest-test ranking.
type TestDuration struct {
	Seconds float64
	Phase   string // "call", "setup", "teardown"
	Test    string
}

// ValidationOutcome is the aggregate pass/fail/error result of the
// validation runner plus per-test timing.
type ValidationOutcome struct {
	Status    ValidationStatus
	ExitCode  int
	Duration  time.Duration
	SuitePath string
	Slowest   []TestDuration
}
