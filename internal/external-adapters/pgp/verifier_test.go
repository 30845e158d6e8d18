package pgp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifier_LoadKeyring_MissingFile(t *testing.T) {
	v := NewVerifier()

	err := v.LoadKeyring(filepath.Join(t.TempDir(), "nope.asc"))
	if err == nil {
		t.Fatal("LoadKeyring() should fail on a missing file")
	}
}

func TestVerifier_LoadKeyring_Garbage(t *testing.T) {
	v := NewVerifier()

	path := filepath.Join(t.TempDir(), "keys.asc")
	if err := os.WriteFile(path, []byte("not a keyring"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := v.LoadKeyring(path); err == nil {
		t.Fatal("LoadKeyring() should reject non-keyring content")
	}
	if v.KeyCount() != 0 {
		t.Errorf("KeyCount() = %d, want 0 after a rejected load", v.KeyCount())
	}
}

func TestVerifier_VerifyDetached_NoKeys(t *testing.T) {
	v := NewVerifier()

	err := v.VerifyDetached("file", "file.asc")
	if err == nil {
		t.Fatal("VerifyDetached() should fail without loaded keys")
	}
	if !strings.Contains(err.Error(), "no keys loaded") {
		t.Errorf("error %q should say no keys are loaded", err)
	}
}
