package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// descriptor files that make a project installable, in preference order
var projectDescriptors = []string{"pyproject.toml", "setup.py"}

// Installer installs the local project into a provisioned environment in
// editable, no-network-build mode. The working tree stays the source of
// truth: source changes are visible without reinstalling.
type Installer struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

// NewInstaller creates a new package installer
func NewInstaller(runner Runner) *Installer {
	return &Installer{
		runner:  runner,
		binary:  "micromamba",
		timeout: 10 * time.Minute,
	}
}

// Install performs the editable install of projectDir into env. The install
// never re-resolves the project's declared dependencies and never builds in
// isolation, so only packages already in the environment are used.
func (i *Installer) Install(ctx context.Context, env *entities.EnvironmentHandle, projectDir string) (*entities.ProjectInstall, error) {
	descriptor, err := findDescriptor(projectDir)
	if err != nil {
		return nil, err
	}

	result := i.runner.Run(ctx, CommandSpec{
		Prog: i.binary,
		Args: []string{
			"run", "-n", env.Name,
			"python", "-m", "pip", "install",
			"-e", projectDir,
			"--no-deps", "--no-build-isolation",
		},
		Timeout:     i.timeout,
		Stream:      true,
		Description: fmt.Sprintf("install project into %s", env.Name),
	})

	if !result.Started {
		return nil, fmt.Errorf("failed to start %s: %w", i.binary, result.Error)
	}
	if !result.Success {
		return nil, fmt.Errorf("project install failed (exit %d): %w\nStderr: %s",
			result.ExitCode, result.Error, result.Stderr)
	}

	return &entities.ProjectInstall{
		ProjectDir:  projectDir,
		Environment: env.Name,
		Descriptor:  descriptor,
	}, nil
}

func findDescriptor(projectDir string) (string, error) {
	for _, name := range projectDescriptors {
		path := filepath.Join(projectDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no installable project descriptor (%v) found in %s", projectDescriptors, projectDir)
}
