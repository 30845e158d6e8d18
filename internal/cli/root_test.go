package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "provision", "install", "fetch", "report", "validate", "schedule"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelci.yml")
	data := "dataset:\n  url: https://example.org/d.git\nenvironment:\n  name: cf-graph\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadConfig(&RootOptions{Config: path}, &ConfigOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "cf-graph", cfg.EnvName)
	assert.Equal(t, "https://example.org/d.git", cfg.DatasetURL)
}

func TestLoadConfig_OverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modelci.yml")
	data := "dataset:\n  url: https://example.org/d.git\nvalidation:\n  suite: tests/model\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadConfig(&RootOptions{Config: path}, &ConfigOverrides{
		Suite:      "tests/model/subset",
		EnvName:    "override-env",
		Durations:  25,
		DatasetDir: "fresh-data",
	})
	require.NoError(t, err)
	assert.Equal(t, "tests/model/subset", cfg.SuitePath)
	assert.Equal(t, "override-env", cfg.EnvName)
	assert.Equal(t, 25, cfg.DurationsCount)
	assert.Equal(t, "fresh-data", cfg.DatasetDir)
}

func TestLoadConfig_MissingFileNeedsDatasetURL(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yml")

	_, err := LoadConfig(&RootOptions{Config: missing}, &ConfigOverrides{})
	require.Error(t, err)

	cfg, err := LoadConfig(&RootOptions{Config: missing}, &ConfigOverrides{
		DatasetURL: "https://example.org/d.git",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/d.git", cfg.DatasetURL)
	assert.Equal(t, "modelci", cfg.EnvName)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(false)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	verbose, err := NewLogger(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
