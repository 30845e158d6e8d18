package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/regrolabs/modelci/internal/domain-adapters/gateways"
	orchestrators "github.com/regrolabs/modelci/internal/domain-orchestrators"
	"github.com/regrolabs/modelci/internal/domain/entities"
	"github.com/regrolabs/modelci/internal/domain/services"
	"github.com/regrolabs/modelci/internal/external-adapters/pgp"
	configyaml "github.com/regrolabs/modelci/internal/external-adapters/yaml"
)

// NewRunCommand creates the run command: one full manual pipeline dispatch.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full validation pipeline once",
		Long: `Provision the environment from the lock specification, install the local
project, fetch a fresh dataset snapshot, dump environment diagnostics and
run the model test suite.

Examples:
  modelci run
  modelci run --config ci/modelci.yml
  modelci run --dataset-url https://example.org/graph-data.git --suite tests/model`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, rootOpts, overrides)
		},
	}

	AddConfigFlags(cmd, overrides)
	return cmd
}

func runPipeline(cmd *cobra.Command, rootOpts *RootOptions, overrides *ConfigOverrides) error {
	cfg, err := LoadConfig(rootOpts, overrides)
	if err != nil {
		return WrapExitError(ExitPipelineError, "invalid configuration", err)
	}

	logger, err := NewLogger(rootOpts.Verbose)
	if err != nil {
		return WrapExitError(ExitPipelineError, "failed to initialize logger", err)
	}
	//nolint:errcheck // Sync on process exit
	defer logger.Sync()

	orch := NewOrchestrator(logger)
	report := orch.Run(cmd.Context(), cfg)

	printRunReport(cmd, report)
	return reportToExitError(report)
}

// NewOrchestrator wires the gateways, services and parsers into a pipeline
// orchestrator.
func NewOrchestrator(logger *zap.Logger) *orchestrators.PipelineOrchestrator {
	runner := gateways.NewCommandRunner()

	return orchestrators.NewPipelineOrchestrator(
		services.NewIntegrityService(pgp.NewVerifier()),
		configyaml.NewLockfileParser(),
		configyaml.NewRCParser(),
		gateways.NewProvisioner(runner),
		gateways.NewInstaller(runner),
		gateways.NewFetcher(runner),
		gateways.NewReporter(runner),
		gateways.NewValidationRunner(runner),
		services.NewOutcomeService(),
		logger,
	)
}

func printRunReport(cmd *cobra.Command, report *orchestrators.RunReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nRun %s\n", report.RunID)
	for _, step := range report.Steps {
		fmt.Fprintf(out, "  %-12s %-7s %s\n", step.Name, step.Status, step.Duration.Round(time.Millisecond))
		if step.Err != nil {
			fmt.Fprintf(out, "               %v\n", step.Err)
		}
	}

	if report.Outcome != nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, services.RenderSummary(report.Outcome))
	}
}

// reportToExitError maps a run report to the process exit taxonomy. A test
// failure and a broken harness must stay distinguishable for operators.
func reportToExitError(report *orchestrators.RunReport) error {
	if report.Err != nil {
		return WrapExitError(ExitPipelineError, "pipeline aborted", report.Err)
	}

	switch report.Outcome.Status {
	case entities.ValidationPassed:
		return nil
	case entities.ValidationFailed:
		return NewExitError(ExitTestsFailed, "validation suite reported failures")
	default:
		return NewExitError(ExitRunnerError, "validation runner could not execute")
	}
}
