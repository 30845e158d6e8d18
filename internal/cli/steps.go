package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regrolabs/modelci/internal/domain-adapters/gateways"
	"github.com/regrolabs/modelci/internal/domain/entities"
	"github.com/regrolabs/modelci/internal/domain/services"
	"github.com/regrolabs/modelci/internal/external-adapters/pgp"
	configyaml "github.com/regrolabs/modelci/internal/external-adapters/yaml"
)

// The step commands run individual pipeline stages for debugging a broken
// run. They assume the preceding stages' side effects are already in place
// (e.g. validate needs a provisioned environment and a fetched snapshot).

// NewProvisionCommand creates the provision command.
func NewProvisionCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:           "provision",
		Short:         "Provision the environment from the lock specification",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(rootOpts, overrides)
			if err != nil {
				return WrapExitError(ExitPipelineError, "invalid configuration", err)
			}

			integrity := services.NewIntegrityService(pgp.NewVerifier())
			if err := integrity.CheckLockfile(cfg.LockfilePath, cfg.KeyringPath); err != nil {
				return WrapExitError(ExitPipelineError, "lock specification rejected", err)
			}
			if _, err := configyaml.NewLockfileParser().ParseFile(cfg.LockfilePath); err != nil {
				return WrapExitError(ExitPipelineError, "lock specification rejected", err)
			}

			env, err := gateways.NewProvisioner(gateways.NewCommandRunner()).Provision(cmd.Context(), cfg)
			if err != nil {
				return WrapExitError(ExitPipelineError, "provisioning failed", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Environment %s ready\n", env.Name)
			return nil
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

// NewInstallCommand creates the install command.
func NewInstallCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:           "install",
		Short:         "Install the local project into the provisioned environment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(rootOpts, overrides)
			if err != nil {
				return WrapExitError(ExitPipelineError, "invalid configuration", err)
			}

			installer := gateways.NewInstaller(gateways.NewCommandRunner())
			install, err := installer.Install(cmd.Context(), envHandle(cfg), cfg.ProjectDir)
			if err != nil {
				return WrapExitError(ExitPipelineError, "install failed", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s into %s\n", install.Descriptor, install.Environment)
			return nil
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:           "fetch",
		Short:         "Fetch a fresh depth-1 snapshot of the dataset repository",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(rootOpts, overrides)
			if err != nil {
				return WrapExitError(ExitPipelineError, "invalid configuration", err)
			}

			fetcher := gateways.NewFetcher(gateways.NewCommandRunner())
			snapshot, err := fetcher.Fetch(cmd.Context(), cfg.DatasetURL, cfg.DatasetDir)
			if err != nil {
				return WrapExitError(ExitPipelineError, "fetch failed", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s at %s\n", snapshot.Commit, snapshot.Path)
			return nil
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Dump environment composition diagnostics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(rootOpts, overrides)
			if err != nil {
				return WrapExitError(ExitPipelineError, "invalid configuration", err)
			}

			reporter := gateways.NewReporter(gateways.NewCommandRunner())
			if err := reporter.Report(cmd.Context(), envHandle(cfg)); err != nil {
				// informational inside the pipeline, but a direct invocation
				// should still say it failed
				return WrapExitError(ExitPipelineError, "diagnostics failed", err)
			}
			return nil
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Run the validation suite against an existing snapshot",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(rootOpts, overrides)
			if err != nil {
				return WrapExitError(ExitPipelineError, "invalid configuration", err)
			}
			return runValidate(cmd.Context(), cmd, cfg)
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, cfg *entities.HarnessConfig) error {
	runner := gateways.NewValidationRunner(gateways.NewCommandRunner())
	snapshot := &entities.DatasetSnapshot{URL: cfg.DatasetURL, Path: cfg.DatasetDir}

	run := runner.RunSuite(ctx, cfg, envHandle(cfg), snapshot)
	outcome := services.NewOutcomeService().Classify(run, cfg.SuitePath)

	fmt.Fprint(cmd.OutOrStdout(), services.RenderSummary(outcome))

	switch outcome.Status {
	case entities.ValidationPassed:
		return nil
	case entities.ValidationFailed:
		return NewExitError(ExitTestsFailed, "validation suite reported failures")
	default:
		return NewExitError(ExitRunnerError, "validation runner could not execute")
	}
}

// envHandle builds a handle for an environment provisioned by an earlier
// invocation.
func envHandle(cfg *entities.HarnessConfig) *entities.EnvironmentHandle {
	return &entities.EnvironmentHandle{
		Name:     cfg.EnvName,
		LockPath: cfg.LockfilePath,
		RCPath:   cfg.RCPath,
	}
}
