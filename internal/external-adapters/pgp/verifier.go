// Package pgp provides detached-signature verification capabilities.
package pgp

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier implements OpenPGP signature verification using ProtonMail's
// go-crypto, a maintained fork of golang.org/x/crypto/openpgp. Keys come
// from a local keyring file; the harness runs in CI without keyserver
// access.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{keyring: make(openpgp.EntityList, 0)}
}

// LoadKeyring imports armored public keys from a local file
func (v *Verifier) LoadKeyring(path string) error {
	//nolint:gosec // G304: keyring path is user-provided
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open keyring: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return fmt.Errorf("failed to parse keyring: %w", err)
	}
	if len(entities) == 0 {
		return fmt.Errorf("keyring %s contains no keys", path)
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// KeyCount returns the number of loaded keys
func (v *Verifier) KeyCount() int {
	return len(v.keyring)
}

// VerifyDetached verifies an armored detached signature over a file
func (v *Verifier) VerifyDetached(filePath, sigPath string) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no keys loaded, call LoadKeyring first")
	}

	//nolint:gosec // G304: signature path is user-provided
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	//nolint:gosec // G304: file path is user-provided
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	signer, err := openpgp.CheckArmoredDetachedSignature(v.keyring, f, sigFile, nil)
	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	if signer == nil {
		return fmt.Errorf("signature not made by any known key")
	}

	return nil
}
