package gateways

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// ValidationRunner executes the model test suite inside the provisioned
// environment, with the working directory set to the dataset snapshot root
// so the suite can reach the fresh data by relative path.
type ValidationRunner struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

// NewValidationRunner creates a new validation runner
func NewValidationRunner(runner Runner) *ValidationRunner {
	return &ValidationRunner{
		runner:  runner,
		binary:  "micromamba",
		timeout: 60 * time.Minute,
	}
}

// RunSuite invokes pytest on cfg.SuitePath from the snapshot root. When
// FORCE_COLOR is set in the process environment the runner asks pytest for
// colorized output; this only affects rendering, never pass/fail.
func (v *ValidationRunner) RunSuite(ctx context.Context, cfg *entities.HarnessConfig, env *entities.EnvironmentHandle, snapshot *entities.DatasetSnapshot) *entities.SuiteRun {
	args := []string{"run", "-n", env.Name, "python", "-m", "pytest", cfg.SuitePath}
	if cfg.Verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", cfg.Verbosity))
	}
	args = append(args, fmt.Sprintf("--durations=%d", cfg.DurationsCount))
	if os.Getenv("FORCE_COLOR") != "" {
		args = append(args, "--color=yes")
	}

	result := v.runner.Run(ctx, CommandSpec{
		Prog:        v.binary,
		Args:        args,
		WorkingDir:  snapshot.Path,
		Timeout:     v.timeout,
		Stream:      true,
		Description: fmt.Sprintf("validation suite %s", cfg.SuitePath),
	})

	if !result.Started {
		fmt.Fprintf(os.Stderr, "validation runner could not start: %v\n", result.Error)
	}

	return &entities.SuiteRun{
		Started:  result.Started,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		Duration: result.Duration,
		Err:      result.Error,
	}
}
