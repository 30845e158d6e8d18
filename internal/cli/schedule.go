package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/regrolabs/modelci/internal/scheduler"
)

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	Cron string
}

// NewScheduleCommand creates the schedule command: recurring pipeline runs
// on a cron-style time spec.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}
	overrides := &ConfigOverrides{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a recurring cron schedule",
		Long: `Run the full validation pipeline on a cron schedule until interrupted.
A trigger that fires while a previous run is still active is skipped.

Examples:
  modelci schedule --cron "0 6 * * *"
  modelci schedule --cron "@daily" --config ci/modelci.yml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts, overrides)
		},
	}

	cmd.Flags().StringVar(&opts.Cron, "cron", "", "cron-style time spec (required)")
	//nolint:errcheck // flag is registered above
	cmd.MarkFlagRequired("cron")
	AddConfigFlags(cmd, overrides)

	return cmd
}

func runSchedule(cmd *cobra.Command, opts *ScheduleOptions, overrides *ConfigOverrides) error {
	cfg, err := LoadConfig(opts.RootOptions, overrides)
	if err != nil {
		return WrapExitError(ExitPipelineError, "invalid configuration", err)
	}

	logger, err := NewLogger(opts.Verbose)
	if err != nil {
		return WrapExitError(ExitPipelineError, "failed to initialize logger", err)
	}
	//nolint:errcheck // Sync on process exit
	defer logger.Sync()

	orch := NewOrchestrator(logger)
	sched := scheduler.New(logger)

	job := func(ctx context.Context) error {
		report := orch.Run(ctx, cfg)
		printRunReport(cmd, report)
		if err := reportToExitError(report); err != nil {
			// a failed scheduled run waits for the next trigger; only log
			logger.Error("scheduled run did not pass", zap.Error(err))
		}
		return nil
	}

	if err := sched.Schedule(cmd.Context(), opts.Cron, job); err != nil {
		return WrapExitError(ExitPipelineError, "invalid cron spec", err)
	}

	logger.Info("scheduler started", zap.String("cron", opts.Cron))
	sched.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}

	logger.Info("scheduler stopping")
	sched.Stop()
	return nil
}
