package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// yamlLockfile represents the raw conda-lock file structure
type yamlLockfile struct {
	Version  int               `yaml:"version"`
	Metadata yamlLockMetadata  `yaml:"metadata"`
	Packages []yamlLockPackage `yaml:"package"`
}

type yamlLockMetadata struct {
	Channels []yamlLockChannel `yaml:"channels"`
}

// yamlLockChannel accepts both the object form ({url: conda-forge}) and the
// plain string form some generators emit.
type yamlLockChannel struct {
	URL string `yaml:"url"`
}

func (c *yamlLockChannel) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.URL = node.Value
		return nil
	}
	type plain yamlLockChannel
	return node.Decode((*plain)(c))
}

type yamlLockPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Manager  string `yaml:"manager"`
	Platform string `yaml:"platform"`
}

// LockfileParser parses conda-lock specifications
type LockfileParser struct{}

// NewLockfileParser creates a new lockfile parser
func NewLockfileParser() *LockfileParser {
	return &LockfileParser{}
}

// ParseFile reads and parses a conda-lock file
func (p *LockfileParser) ParseFile(path string) (*entities.LockSpec, error) {
	//nolint:gosec // G304: lockfile path is user-provided
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}

	spec, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	spec.Path = path
	return spec, nil
}

// Parse parses a lock specification from raw YAML bytes
func (p *LockfileParser) Parse(data []byte) (*entities.LockSpec, error) {
	var raw yamlLockfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse lock file YAML: %w", err)
	}

	if len(raw.Packages) == 0 {
		return nil, fmt.Errorf("lock file contains no packages")
	}

	spec := &entities.LockSpec{
		Version: raw.Version,
	}
	for _, ch := range raw.Metadata.Channels {
		if ch.URL != "" {
			spec.Channels = append(spec.Channels, ch.URL)
		}
	}
	for _, pkg := range raw.Packages {
		if pkg.Name == "" || pkg.Version == "" {
			return nil, fmt.Errorf("lock file entry missing name or version")
		}
		spec.Packages = append(spec.Packages, entities.PinnedPackage{
			Name:     pkg.Name,
			Version:  pkg.Version,
			Manager:  pkg.Manager,
			Platform: pkg.Platform,
		})
	}

	return spec, nil
}

// yamlRC represents the raw channel-configuration (rc) file structure
type yamlRC struct {
	Channels        []string `yaml:"channels"`
	ChannelPriority string   `yaml:"channel_priority"`
}

// RCParser parses channel-configuration files
type RCParser struct{}

// NewRCParser creates a new rc file parser
func NewRCParser() *RCParser {
	return &RCParser{}
}

// ParseFile reads and parses a channel-configuration file
func (p *RCParser) ParseFile(path string) (*entities.ChannelConfig, error) {
	//nolint:gosec // G304: rc path is user-provided
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rc file: %w", err)
	}

	var raw yamlRC
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse rc file YAML: %w", err)
	}

	if len(raw.Channels) == 0 {
		return nil, fmt.Errorf("rc file %s names no channels", path)
	}

	return &entities.ChannelConfig{
		Path:     path,
		Channels: raw.Channels,
	}, nil
}
