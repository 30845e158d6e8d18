package yaml

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleLockfile = `
version: 1
metadata:
  channels:
    - url: conda-forge
      used_env_vars: []
package:
  - name: python
    version: 3.11.9
    manager: conda
    platform: linux-64
  - name: networkx
    version: "3.3"
    manager: conda
    platform: linux-64
  - name: python
    version: 3.11.9
    manager: conda
    platform: osx-arm64
`

func TestLockfileParser_Parse(t *testing.T) {
	spec, err := NewLockfileParser().Parse([]byte(sampleLockfile))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if spec.Version != 1 {
		t.Errorf("Version = %d, want 1", spec.Version)
	}
	if len(spec.Channels) != 1 || spec.Channels[0] != "conda-forge" {
		t.Errorf("Channels = %v, want [conda-forge]", spec.Channels)
	}
	if len(spec.Packages) != 3 {
		t.Fatalf("Packages = %d entries, want 3", len(spec.Packages))
	}

	linux := spec.PackagesForPlatform("linux-64")
	if len(linux) != 2 {
		t.Errorf("PackagesForPlatform(linux-64) = %d entries, want 2", len(linux))
	}
}

func TestLockfileParser_Parse_Deterministic(t *testing.T) {
	p := NewLockfileParser()

	first, err := p.Parse([]byte(sampleLockfile))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	second, err := p.Parse([]byte(sampleLockfile))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if len(first.Packages) != len(second.Packages) {
		t.Fatalf("package counts differ: %d vs %d", len(first.Packages), len(second.Packages))
	}
	for i := range first.Packages {
		if first.Packages[i] != second.Packages[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first.Packages[i], second.Packages[i])
		}
	}
}

func TestLockfileParser_Parse_ScalarChannels(t *testing.T) {
	data := []byte(`
version: 1
metadata:
  channels:
    - conda-forge
    - bioconda
package:
  - name: python
    version: 3.11.9
    manager: conda
    platform: linux-64
`)

	spec, err := NewLockfileParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(spec.Channels) != 2 {
		t.Errorf("Channels = %v, want two entries", spec.Channels)
	}
}

func TestLockfileParser_Parse_Empty(t *testing.T) {
	if _, err := NewLockfileParser().Parse([]byte("version: 1\n")); err == nil {
		t.Fatal("Parse() should reject a lock file without packages")
	}
}

func TestLockfileParser_Parse_MissingVersionField(t *testing.T) {
	data := []byte(`
package:
  - name: python
    platform: linux-64
`)
	if _, err := NewLockfileParser().Parse(data); err == nil {
		t.Fatal("Parse() should reject entries without a pinned version")
	}
}

func TestLockfileParser_ParseFile_RecordsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conda-lock.yml")
	if err := os.WriteFile(path, []byte(sampleLockfile), 0600); err != nil {
		t.Fatalf("failed to write lockfile: %v", err)
	}

	spec, err := NewLockfileParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if spec.Path != path {
		t.Errorf("Path = %q, want %q", spec.Path, path)
	}
}

func TestRCParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".condarc")
	data := "channels:\n  - conda-forge\nchannel_priority: strict\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("failed to write rc file: %v", err)
	}

	rc, err := NewRCParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if len(rc.Channels) != 1 || rc.Channels[0] != "conda-forge" {
		t.Errorf("Channels = %v, want [conda-forge]", rc.Channels)
	}
}

func TestRCParser_ParseFile_NoChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".condarc")
	if err := os.WriteFile(path, []byte("channel_priority: strict\n"), 0600); err != nil {
		t.Fatalf("failed to write rc file: %v", err)
	}

	if _, err := NewRCParser().ParseFile(path); err == nil {
		t.Fatal("ParseFile() should reject an rc file naming no channels")
	}
}
