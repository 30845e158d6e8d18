// Package gateways adapts external tooling (micromamba, git, pytest) behind
// narrow interfaces consumed by the pipeline orchestrator.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// CommandSpec describes one external command invocation.
type CommandSpec struct {
	Prog        string
	Args        []string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration
	Stream      bool // tee stdout/stderr to the process streams for long steps
	Description string
}

// CommandResult contains the result of a command execution
type CommandResult struct {
	Success  bool
	ExitCode int
	Started  bool // false when the command could not start at all
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Runner executes external commands. Satisfied by CommandRunner and by test
// fakes.
type Runner interface {
	Run(ctx context.Context, spec CommandSpec) *CommandResult
}

// CommandRunner executes external commands with captured output and a
// per-command timeout.
type CommandRunner struct {
	defaultTimeout time.Duration
}

// NewCommandRunner creates a new command runner
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		defaultTimeout: 30 * time.Minute,
	}
}

// Run executes a command with the given spec
func (r *CommandRunner) Run(ctx context.Context, spec CommandSpec) *CommandResult {
	startTime := time.Now()
	result := &CommandResult{}

	timeout := spec.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: command invocation is intentional and configuration-driven
	cmd := exec.CommandContext(execCtx, spec.Prog, spec.Args...)

	if spec.WorkingDir != "" {
		cmd.Dir = spec.WorkingDir
	}

	env := os.Environ()
	for key, value := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	if spec.Stream {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if spec.Description != "" {
		fmt.Fprintf(os.Stderr, "Executing: %s\n", spec.Description)
	}

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if errors.As(err, &exitErr) {
			result.Started = true
			result.ExitCode = exitErr.ExitCode()
		} else if execCtx.Err() == context.DeadlineExceeded {
			result.Started = true
			result.Error = fmt.Errorf("command timeout after %v", timeout)
			result.ExitCode = -1
		} else {
			// exec.Error: binary not found, permission denied, etc.
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.Started = true
	result.ExitCode = 0
	return result
}
