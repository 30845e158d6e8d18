package services

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SignatureVerifier verifies a detached signature over a file.
type SignatureVerifier interface {
	LoadKeyring(path string) error
	VerifyDetached(filePath, sigPath string) error
}

// IntegrityService checks a lock specification before it is used to
// provision anything. A pinned lock spec is only reproducible when it is
// also the lock spec you think it is.
//
// Side files are optional: <lock>.sha256 holds the expected checksum,
// <lock>.asc an armored detached signature. Absent side files are skipped;
// present ones must verify.
type IntegrityService struct {
	verifier SignatureVerifier
}

// NewIntegrityService creates a new integrity service
func NewIntegrityService(verifier SignatureVerifier) *IntegrityService {
	return &IntegrityService{verifier: verifier}
}

// CheckLockfile verifies lockPath against its side files. keyringPath may be
// empty, in which case a present signature file is an error (it cannot be
// checked, and an uncheckable signature must not pass silently).
func (s *IntegrityService) CheckLockfile(lockPath, keyringPath string) error {
	if err := s.checkChecksum(lockPath); err != nil {
		return err
	}
	return s.checkSignature(lockPath, keyringPath)
}

func (s *IntegrityService) checkChecksum(lockPath string) error {
	sumPath := lockPath + ".sha256"
	expected, err := readChecksumFile(sumPath, filepath.Base(lockPath))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	actual, err := fileSHA256(lockPath)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("lock file checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

func (s *IntegrityService) checkSignature(lockPath, keyringPath string) error {
	sigPath := lockPath + ".asc"
	if _, err := os.Stat(sigPath); os.IsNotExist(err) {
		return nil
	}

	if keyringPath == "" {
		return fmt.Errorf("signature %s present but no keyring configured", sigPath)
	}
	if err := s.verifier.LoadKeyring(keyringPath); err != nil {
		return fmt.Errorf("failed to load keyring: %w", err)
	}
	if err := s.verifier.VerifyDetached(lockPath, sigPath); err != nil {
		return fmt.Errorf("lock file signature check failed: %w", err)
	}
	return nil
}

// readChecksumFile reads a "sha256sum"-format file and returns the checksum
// for name. A single bare checksum with no filename is also accepted.
func readChecksumFile(path, name string) (string, error) {
	//nolint:gosec // G304: checksum path derives from the user-provided lock path
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		switch {
		case len(fields) == 1:
			return fields[0], nil
		case len(fields) >= 2 && strings.TrimPrefix(fields[1], "*") == name:
			return fields[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read checksum file: %w", err)
	}
	return "", fmt.Errorf("no checksum entry for %s in %s", name, path)
}

func fileSHA256(path string) (string, error) {
	//nolint:gosec // G304: file path is user-provided
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
