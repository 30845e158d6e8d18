package gateways

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

func testConfig() *entities.HarnessConfig {
	return &entities.HarnessConfig{
		EnvName:        "cf-graph",
		LockfilePath:   "conda-lock.yml",
		RCPath:         ".condarc",
		ProjectDir:     ".",
		DatasetURL:     "https://example.org/graph-data.git",
		DatasetDir:     "dataset",
		SuitePath:      "tests/model",
		DurationsCount: 10,
		Verbosity:      1,
	}
}

func TestProvisioner_Provision_ArgvConstruction(t *testing.T) {
	fake := newFakeRunner()
	p := NewProvisioner(fake)

	env, err := p.Provision(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Provision() failed: %v", err)
	}

	line := argLine(fake.lastSpec())
	want := "micromamba create --yes --name cf-graph --file conda-lock.yml --rc-file .condarc"
	if line != want {
		t.Errorf("Provision() argv = %q, want %q", line, want)
	}

	if env.Name != "cf-graph" {
		t.Errorf("handle name = %q, want cf-graph", env.Name)
	}
}

func TestProvisioner_Provision_NoRCFile(t *testing.T) {
	fake := newFakeRunner()
	p := NewProvisioner(fake)

	cfg := testConfig()
	cfg.RCPath = ""

	if _, err := p.Provision(context.Background(), cfg); err != nil {
		t.Fatalf("Provision() failed: %v", err)
	}

	if strings.Contains(argLine(fake.lastSpec()), "--rc-file") {
		t.Error("Provision() passed --rc-file without a configured rc path")
	}
}

func TestProvisioner_Provision_ResolutionFailure(t *testing.T) {
	fake := newFakeRunner()
	fake.results["create"] = &CommandResult{
		Started:  true,
		ExitCode: 1,
		Stderr:   "could not solve for environment",
	}
	p := NewProvisioner(fake)

	_, err := p.Provision(context.Background(), testConfig())
	if err == nil {
		t.Fatal("Provision() should fail when resolution fails")
	}

	if !strings.Contains(err.Error(), "could not solve") {
		t.Errorf("error %q should carry solver stderr", err)
	}
}

func TestProvisioner_Provision_BinaryMissing(t *testing.T) {
	fake := newFakeRunner()
	fake.results["create"] = &CommandResult{Started: false, Error: errors.New("executable file not found")}
	p := NewProvisioner(fake)

	_, err := p.Provision(context.Background(), testConfig())
	if err == nil {
		t.Fatal("Provision() should fail when micromamba cannot start")
	}

	if !strings.Contains(err.Error(), "failed to start") {
		t.Errorf("error %q should say the binary failed to start", err)
	}
}
