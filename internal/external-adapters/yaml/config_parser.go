// Package yaml provides YAML-based parsing for the harness configuration,
// lock specifications and channel configuration files.
package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// yamlConfig represents the raw modelci.yml structure
type yamlConfig struct {
	Environment yamlEnvironment `yaml:"environment"`
	Project     yamlProject     `yaml:"project"`
	Dataset     yamlDataset     `yaml:"dataset"`
	Validation  yamlValidation  `yaml:"validation"`
}

type yamlEnvironment struct {
	Name     string `yaml:"name"`
	Lockfile string `yaml:"lockfile"`
	RCFile   string `yaml:"rc_file"`
}

type yamlProject struct {
	Dir     string `yaml:"dir"`
	Keyring string `yaml:"keyring"`
}

type yamlDataset struct {
	URL string `yaml:"url"`
	Dir string `yaml:"dir"`
}

type yamlValidation struct {
	Suite     string `yaml:"suite"`
	Durations int    `yaml:"durations"`
	Verbosity int    `yaml:"verbosity"`
}

// ConfigParser parses harness configuration files
type ConfigParser struct{}

// NewConfigParser creates a new harness config parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile reads and parses a modelci.yml harness configuration
func (p *ConfigParser) ParseFile(path string) (*entities.HarnessConfig, error) {
	//nolint:gosec // G304: config path is user-provided
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return p.Parse(data)
}

// Parse parses harness configuration from raw YAML bytes
func (p *ConfigParser) Parse(data []byte) (*entities.HarnessConfig, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg := &entities.HarnessConfig{
		EnvName:        raw.Environment.Name,
		LockfilePath:   raw.Environment.Lockfile,
		RCPath:         raw.Environment.RCFile,
		ProjectDir:     raw.Project.Dir,
		KeyringPath:    raw.Project.Keyring,
		DatasetURL:     raw.Dataset.URL,
		DatasetDir:     raw.Dataset.Dir,
		SuitePath:      raw.Validation.Suite,
		DurationsCount: raw.Validation.Durations,
		Verbosity:      raw.Validation.Verbosity,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *entities.HarnessConfig) {
	if cfg.EnvName == "" {
		cfg.EnvName = "modelci"
	}
	if cfg.LockfilePath == "" {
		cfg.LockfilePath = "conda-lock.yml"
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if cfg.DatasetDir == "" {
		cfg.DatasetDir = "dataset"
	}
	if cfg.SuitePath == "" {
		cfg.SuitePath = "tests/model"
	}
	if cfg.DurationsCount == 0 {
		cfg.DurationsCount = 10
	}
	if cfg.Verbosity == 0 {
		cfg.Verbosity = 1
	}
}

func validate(cfg *entities.HarnessConfig) error {
	if cfg.DatasetURL == "" {
		return fmt.Errorf("dataset.url is required")
	}
	if cfg.DurationsCount < 0 {
		return fmt.Errorf("validation.durations must not be negative")
	}
	return nil
}
