// Package cli implements the modelci command surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/regrolabs/modelci/internal/domain/entities"
	configyaml "github.com/regrolabs/modelci/internal/external-adapters/yaml"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Config  string
}

// NewRootCommand creates the root command for the modelci CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "modelci",
		Short: "modelci - model validation harness",
		Long: `A scheduled harness that provisions a pinned environment, installs the
local project, fetches a fresh dataset snapshot and runs the model test
suite against the combination.

Exit codes:
  0 - All tests passed
  1 - One or more tests failed
  2 - Pipeline could not execute
  3 - Test runner could not execute`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "modelci.yml", "harness configuration file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewProvisionCommand(opts))
	cmd.AddCommand(NewInstallCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))

	return cmd
}

// NewLogger builds the zap logger used across commands.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// ConfigOverrides carries per-command flag overrides applied on top of the
// configuration file.
type ConfigOverrides struct {
	EnvName    string
	Lockfile   string
	RCFile     string
	ProjectDir string
	DatasetURL string
	DatasetDir string
	Suite      string
	Durations  int
}

// AddConfigFlags registers the shared override flags on cmd.
func AddConfigFlags(cmd *cobra.Command, o *ConfigOverrides) {
	cmd.Flags().StringVar(&o.EnvName, "env-name", "", "environment name (overrides config)")
	cmd.Flags().StringVar(&o.Lockfile, "lockfile", "", "lock specification path (overrides config)")
	cmd.Flags().StringVar(&o.RCFile, "rc-file", "", "channel configuration path (overrides config)")
	cmd.Flags().StringVar(&o.ProjectDir, "project-dir", "", "local project directory (overrides config)")
	cmd.Flags().StringVar(&o.DatasetURL, "dataset-url", "", "dataset repository URL (overrides config)")
	cmd.Flags().StringVar(&o.DatasetDir, "dataset-dir", "", "dataset checkout path (overrides config)")
	cmd.Flags().StringVar(&o.Suite, "suite", "", "test suite subtree (overrides config)")
	cmd.Flags().IntVar(&o.Durations, "durations", 0, "slowest-N duration report size (overrides config)")
}

// LoadConfig resolves the harness configuration from the config file plus
// flag overrides. A missing config file is only an error when no overrides
// supply the mandatory dataset URL.
func LoadConfig(opts *RootOptions, overrides *ConfigOverrides) (*entities.HarnessConfig, error) {
	parser := configyaml.NewConfigParser()

	var cfg *entities.HarnessConfig
	if _, err := os.Stat(opts.Config); err == nil {
		cfg, err = parser.ParseFile(opts.Config)
		if err != nil {
			return nil, err
		}
	} else {
		if overrides.DatasetURL == "" {
			return nil, fmt.Errorf("config file %s not found and no --dataset-url given", opts.Config)
		}
		cfg, err = parser.Parse([]byte("dataset:\n  url: " + overrides.DatasetURL))
		if err != nil {
			return nil, err
		}
	}

	applyOverrides(cfg, overrides)
	return cfg, nil
}

func applyOverrides(cfg *entities.HarnessConfig, o *ConfigOverrides) {
	if o.EnvName != "" {
		cfg.EnvName = o.EnvName
	}
	if o.Lockfile != "" {
		cfg.LockfilePath = o.Lockfile
	}
	if o.RCFile != "" {
		cfg.RCPath = o.RCFile
	}
	if o.ProjectDir != "" {
		cfg.ProjectDir = o.ProjectDir
	}
	if o.DatasetURL != "" {
		cfg.DatasetURL = o.DatasetURL
	}
	if o.DatasetDir != "" {
		cfg.DatasetDir = o.DatasetDir
	}
	if o.Suite != "" {
		cfg.SuitePath = o.Suite
	}
	if o.Durations > 0 {
		cfg.DurationsCount = o.Durations
	}
}
