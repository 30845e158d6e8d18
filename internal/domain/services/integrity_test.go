package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	loadErr   error
	verifyErr error
	loaded    string
	verified  bool
}

func (f *fakeVerifier) LoadKeyring(path string) error {
	f.loaded = path
	return f.loadErr
}

func (f *fakeVerifier) VerifyDetached(_, _ string) error {
	f.verified = true
	return f.verifyErr
}

func writeLockfile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conda-lock.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0600))
	return path
}

func TestIntegrityService_NoSideFiles(t *testing.T) {
	s := NewIntegrityService(&fakeVerifier{})
	assert.NoError(t, s.CheckLockfile(writeLockfile(t), ""))
}

func TestIntegrityService_ChecksumMatch(t *testing.T) {
	lock := writeLockfile(t)

	sum := sha256.Sum256([]byte("version: 1\n"))
	line := hex.EncodeToString(sum[:]) + "  conda-lock.yml\n"
	require.NoError(t, os.WriteFile(lock+".sha256", []byte(line), 0600))

	s := NewIntegrityService(&fakeVerifier{})
	assert.NoError(t, s.CheckLockfile(lock, ""))
}

func TestIntegrityService_ChecksumMismatch(t *testing.T) {
	lock := writeLockfile(t)
	bad := "deadbeef" + "00000000000000000000000000000000000000000000000000000000"
	require.NoError(t, os.WriteFile(lock+".sha256", []byte(bad+"  conda-lock.yml\n"), 0600))

	s := NewIntegrityService(&fakeVerifier{})
	err := s.CheckLockfile(lock, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestIntegrityService_BareChecksumAccepted(t *testing.T) {
	lock := writeLockfile(t)

	sum := sha256.Sum256([]byte("version: 1\n"))
	require.NoError(t, os.WriteFile(lock+".sha256", []byte(hex.EncodeToString(sum[:])+"\n"), 0600))

	s := NewIntegrityService(&fakeVerifier{})
	assert.NoError(t, s.CheckLockfile(lock, ""))
}

func TestIntegrityService_SignatureWithoutKeyring(t *testing.T) {
	lock := writeLockfile(t)
	require.NoError(t, os.WriteFile(lock+".asc", []byte("-----BEGIN PGP SIGNATURE-----\n"), 0600))

	s := NewIntegrityService(&fakeVerifier{})
	err := s.CheckLockfile(lock, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no keyring configured")
}

func TestIntegrityService_SignatureVerified(t *testing.T) {
	lock := writeLockfile(t)
	require.NoError(t, os.WriteFile(lock+".asc", []byte("-----BEGIN PGP SIGNATURE-----\n"), 0600))

	v := &fakeVerifier{}
	s := NewIntegrityService(v)

	require.NoError(t, s.CheckLockfile(lock, "keys.asc"))
	assert.Equal(t, "keys.asc", v.loaded)
	assert.True(t, v.verified)
}

func TestIntegrityService_SignatureRejected(t *testing.T) {
	lock := writeLockfile(t)
	require.NoError(t, os.WriteFile(lock+".asc", []byte("-----BEGIN PGP SIGNATURE-----\n"), 0600))

	v := &fakeVerifier{verifyErr: errors.New("openpgp: invalid signature")}
	s := NewIntegrityService(v)

	err := s.CheckLockfile(lock, "keys.asc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature check failed")
}
