// Package orchestrators coordinates the harness pipeline across gateways
// and domain services.
package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// IntegrityChecker verifies a lock specification's side files
type IntegrityChecker interface {
	CheckLockfile(lockPath, keyringPath string) error
}

// LockfileParser parses a lock specification
type LockfileParser interface {
	ParseFile(path string) (*entities.LockSpec, error)
}

// RCParser parses a channel-configuration file
type RCParser interface {
	ParseFile(path string) (*entities.ChannelConfig, error)
}

// EnvironmentProvisioner materializes an environment from a lock spec
type EnvironmentProvisioner interface {
	Provision(ctx context.Context, cfg *entities.HarnessConfig) (*entities.EnvironmentHandle, error)
}

// ProjectInstaller installs the local project into an environment
type ProjectInstaller interface {
	Install(ctx context.Context, env *entities.EnvironmentHandle, projectDir string) (*entities.ProjectInstall, error)
}

// DatasetFetcher retrieves a depth-1 dataset snapshot
type DatasetFetcher interface {
	Fetch(ctx context.Context, url, dest string) (*entities.DatasetSnapshot, error)
}

// DiagnosticReporter dumps environment composition
type DiagnosticReporter interface {
	Report(ctx context.Context, env *entities.EnvironmentHandle) error
}

// SuiteRunner executes the validation suite
type SuiteRunner interface {
	RunSuite(ctx context.Context, cfg *entities.HarnessConfig, env *entities.EnvironmentHandle, snapshot *entities.DatasetSnapshot) *entities.SuiteRun
}

// OutcomeClassifier classifies raw suite runs
type OutcomeClassifier interface {
	Classify(run *entities.SuiteRun, suitePath string) *entities.ValidationOutcome
}

// StepStatus records how one pipeline step ended.
type StepStatus string

// Step statuses. A warned step completed the pipeline may proceed past; a
// failed step aborts everything after it.
const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepWarned  StepStatus = "warned"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the result of a single pipeline step
type StepResult struct {
	Name     string
	Status   StepStatus
	Duration time.Duration
	Err      error
}

// RunReport is the aggregate result of one pipeline run
type RunReport struct {
	RunID    string
	Steps    []StepResult
	Outcome  *entities.ValidationOutcome
	Duration time.Duration
	Err      error // first fatal error, nil when the suite ran
}

// PipelineOrchestrator drives the strictly linear provision → install →
// fetch → report → validate chain. There is no retry, no branching and no
// state shared across runs.
type PipelineOrchestrator struct {
	integrity   IntegrityChecker
	lockParser  LockfileParser
	rcParser    RCParser
	provisioner EnvironmentProvisioner
	installer   ProjectInstaller
	fetcher     DatasetFetcher
	reporter    DiagnosticReporter
	runner      SuiteRunner
	classifier  OutcomeClassifier
	logger      *zap.Logger
}

// NewPipelineOrchestrator creates a new pipeline orchestrator
func NewPipelineOrchestrator(
	integrity IntegrityChecker,
	lockParser LockfileParser,
	rcParser RCParser,
	provisioner EnvironmentProvisioner,
	installer ProjectInstaller,
	fetcher DatasetFetcher,
	reporter DiagnosticReporter,
	runner SuiteRunner,
	classifier OutcomeClassifier,
	logger *zap.Logger,
) *PipelineOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineOrchestrator{
		integrity:   integrity,
		lockParser:  lockParser,
		rcParser:    rcParser,
		provisioner: provisioner,
		installer:   installer,
		fetcher:     fetcher,
		reporter:    reporter,
		runner:      runner,
		classifier:  classifier,
		logger:      logger,
	}
}

// Run executes the full pipeline for cfg. Any fatal step aborts the chain
// immediately; only the diagnostic report is allowed to fail without
// stopping the run.
func (o *PipelineOrchestrator) Run(ctx context.Context, cfg *entities.HarnessConfig) *RunReport {
	startTime := time.Now()
	report := &RunReport{RunID: uuid.NewString()}
	log := o.logger.With(zap.String("run_id", report.RunID))

	log.Info("pipeline run starting",
		zap.String("env", cfg.EnvName),
		zap.String("lockfile", cfg.LockfilePath),
		zap.String("dataset", cfg.DatasetURL))

	// Step 1: lock spec integrity and parseability, rc channel check
	if err := o.step(report, log, "verify-spec", func() error {
		if err := o.integrity.CheckLockfile(cfg.LockfilePath, cfg.KeyringPath); err != nil {
			return err
		}
		if _, err := o.lockParser.ParseFile(cfg.LockfilePath); err != nil {
			return err
		}
		if cfg.RCPath != "" {
			if _, err := o.rcParser.ParseFile(cfg.RCPath); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return o.abort(report, startTime, err)
	}

	// Step 2: provision the environment
	var env *entities.EnvironmentHandle
	if err := o.step(report, log, "provision", func() error {
		var err error
		env, err = o.provisioner.Provision(ctx, cfg)
		return err
	}); err != nil {
		return o.abort(report, startTime, err)
	}

	// Step 3: editable install of the local project
	if err := o.step(report, log, "install", func() error {
		_, err := o.installer.Install(ctx, env, cfg.ProjectDir)
		return err
	}); err != nil {
		return o.abort(report, startTime, err)
	}

	// Step 4: fetch the dataset snapshot
	var snapshot *entities.DatasetSnapshot
	if err := o.step(report, log, "fetch", func() error {
		var err error
		snapshot, err = o.fetcher.Fetch(ctx, cfg.DatasetURL, cfg.DatasetDir)
		return err
	}); err != nil {
		return o.abort(report, startTime, err)
	}

	// Step 5: environment diagnostics, informational only
	o.stepNonFatal(report, log, "report", func() error {
		return o.reporter.Report(ctx, env)
	})

	// Step 6: run the validation suite
	stepStart := time.Now()
	run := o.runner.RunSuite(ctx, cfg, env, snapshot)
	report.Outcome = o.classifier.Classify(run, cfg.SuitePath)

	status := StepOK
	if report.Outcome.Status != entities.ValidationPassed {
		status = StepFailed
	}
	report.Steps = append(report.Steps, StepResult{
		Name:     "validate",
		Status:   status,
		Duration: time.Since(stepStart),
		Err:      run.Err,
	})

	report.Duration = time.Since(startTime)
	log.Info("pipeline run finished",
		zap.String("outcome", report.Outcome.Status.String()),
		zap.Duration("duration", report.Duration))
	return report
}

// step runs a fatal pipeline step and records its result.
func (o *PipelineOrchestrator) step(report *RunReport, log *zap.Logger, name string, fn func() error) error {
	startTime := time.Now()
	log.Info("step starting", zap.String("step", name))

	err := fn()
	result := StepResult{Name: name, Status: StepOK, Duration: time.Since(startTime)}
	if err != nil {
		result.Status = StepFailed
		result.Err = fmt.Errorf("%s failed: %w", name, err)
		log.Error("step failed", zap.String("step", name), zap.Error(err))
	} else {
		log.Info("step finished", zap.String("step", name), zap.Duration("duration", result.Duration))
	}

	report.Steps = append(report.Steps, result)
	return result.Err
}

// stepNonFatal runs an informational step; failure is logged, never escalated.
func (o *PipelineOrchestrator) stepNonFatal(report *RunReport, log *zap.Logger, name string, fn func() error) {
	startTime := time.Now()
	log.Info("step starting", zap.String("step", name))

	result := StepResult{Name: name, Status: StepOK, Duration: time.Since(startTime)}
	if err := fn(); err != nil {
		result.Status = StepWarned
		result.Err = err
		log.Warn("informational step failed, continuing", zap.String("step", name), zap.Error(err))
	}
	result.Duration = time.Since(startTime)

	report.Steps = append(report.Steps, result)
}

// abort finalizes a report after a fatal step failure. Remaining steps are
// never attempted.
func (o *PipelineOrchestrator) abort(report *RunReport, startTime time.Time, err error) *RunReport {
	report.Err = err
	report.Duration = time.Since(startTime)
	return report
}
