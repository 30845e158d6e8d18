package gateways

import (
	"context"
	"fmt"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// Provisioner materializes a named, isolated environment from a lock
// specification using micromamba.
type Provisioner struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

// NewProvisioner creates a new environment provisioner
func NewProvisioner(runner Runner) *Provisioner {
	return &Provisioner{
		runner:  runner,
		binary:  "micromamba",
		timeout: 30 * time.Minute,
	}
}

// Provision creates the environment named in cfg from its lock file. The
// rc file, when configured, controls channel priorities and network
// settings during resolution. No partial environment is usable: any
// nonzero exit is fatal.
func (p *Provisioner) Provision(ctx context.Context, cfg *entities.HarnessConfig) (*entities.EnvironmentHandle, error) {
	args := []string{"create", "--yes", "--name", cfg.EnvName, "--file", cfg.LockfilePath}
	if cfg.RCPath != "" {
		args = append(args, "--rc-file", cfg.RCPath)
	}

	result := p.runner.Run(ctx, CommandSpec{
		Prog:        p.binary,
		Args:        args,
		Timeout:     p.timeout,
		Stream:      true,
		Description: fmt.Sprintf("provision environment %s", cfg.EnvName),
	})

	if !result.Started {
		return nil, fmt.Errorf("failed to start %s: %w", p.binary, result.Error)
	}
	if !result.Success {
		return nil, fmt.Errorf("environment resolution failed (exit %d): %w\nStderr: %s",
			result.ExitCode, result.Error, result.Stderr)
	}

	return &entities.EnvironmentHandle{
		Name:       cfg.EnvName,
		LockPath:   cfg.LockfilePath,
		RCPath:     cfg.RCPath,
		CreatedAt:  time.Now(),
		Transcript: result.Stdout,
	}, nil
}
