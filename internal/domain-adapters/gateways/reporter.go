package gateways

import (
	"context"
	"fmt"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// Reporter dumps environment composition for post-mortem visibility. It is
// read-only and informational: a reporting failure never fails the run.
type Reporter struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

// NewReporter creates a new diagnostic reporter
func NewReporter(runner Runner) *Reporter {
	return &Reporter{
		runner:  runner,
		binary:  "micromamba",
		timeout: 2 * time.Minute,
	}
}

// Report emits environment metadata followed by the full listing of
// resolved packages in env.
func (r *Reporter) Report(ctx context.Context, env *entities.EnvironmentHandle) error {
	info := r.runner.Run(ctx, CommandSpec{
		Prog:        r.binary,
		Args:        []string{"info"},
		Timeout:     r.timeout,
		Stream:      true,
		Description: "environment info",
	})
	if !info.Success {
		return fmt.Errorf("environment info failed: %w\nStderr: %s", info.Error, info.Stderr)
	}

	listing := r.runner.Run(ctx, CommandSpec{
		Prog:        r.binary,
		Args:        []string{"list", "-n", env.Name},
		Timeout:     r.timeout,
		Stream:      true,
		Description: fmt.Sprintf("package listing for %s", env.Name),
	})
	if !listing.Success {
		return fmt.Errorf("package listing failed: %w\nStderr: %s", listing.Error, listing.Stderr)
	}

	return nil
}
