// Package services holds domain logic that does not touch external tooling.
package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// pytest exit codes: 0 all passed, 1 tests failed. Everything else
// (interrupted, internal error, usage error, no tests collected) means the
// runner did not complete a normal test pass.
const (
	exitAllPassed   = 0
	exitTestsFailed = 1
)

var durationLine = regexp.MustCompile(`^(\d+(?:\.\d+)?)s\s+(call|setup|teardown)\s+(\S+)`)

// OutcomeService classifies raw suite runs into validation outcomes.
type OutcomeService struct{}

// NewOutcomeService creates a new outcome service
func NewOutcomeService() *OutcomeService {
	return &OutcomeService{}
}

// Classify maps a suite run to a ValidationOutcome. An assertion failure is
// a normal outcome; a runner that never started or exited outside the
// pass/fail codes is an execution error.
func (s *OutcomeService) Classify(run *entities.SuiteRun, suitePath string) *entities.ValidationOutcome {
	outcome := &entities.ValidationOutcome{
		ExitCode:  run.ExitCode,
		Duration:  run.Duration,
		SuitePath: suitePath,
		Slowest:   ParseDurations(run.Stdout),
	}

	switch {
	case !run.Started:
		outcome.Status = entities.ValidationExecError
	case run.ExitCode == exitAllPassed:
		outcome.Status = entities.ValidationPassed
	case run.ExitCode == exitTestsFailed:
		outcome.Status = entities.ValidationFailed
	default:
		outcome.Status = entities.ValidationExecError
	}

	return outcome
}

// ParseDurations extracts the slowest-test ranking from pytest output.
func ParseDurations(output string) []entities.TestDuration {
	var ranking []entities.TestDuration
	inBlock := false

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inBlock {
			if strings.Contains(trimmed, "slowest") && strings.Contains(trimmed, "durations") {
				inBlock = true
			}
			continue
		}

		m := durationLine.FindStringSubmatch(trimmed)
		if m == nil {
			// the block ends at the first non-matching line
			if trimmed != "" {
				break
			}
			continue
		}

		seconds, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		ranking = append(ranking, entities.TestDuration{
			Seconds: seconds,
			Phase:   m[2],
			Test:    m[3],
		})
	}

	return ranking
}

// RenderSummary formats an outcome for operators.
func RenderSummary(outcome *entities.ValidationOutcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Validation outcome: %s (exit %d) after %s\n",
		outcome.Status, outcome.ExitCode, outcome.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Suite: %s\n", outcome.SuitePath)

	if len(outcome.Slowest) > 0 {
		fmt.Fprintf(&b, "Slowest tests:\n")
		for _, d := range outcome.Slowest {
			fmt.Fprintf(&b, "  %.2fs %-8s %s\n", d.Seconds, d.Phase, d.Test)
		}
	}

	return b.String()
}
