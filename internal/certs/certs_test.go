package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCertificate_GeneratesOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	m := NewFileManager(dir)

	exists, err := m.CertificateExists()
	require.NoError(t, err)
	assert.False(t, exists)

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	exists, err = m.CertificateExists()
	require.NoError(t, err)
	assert.True(t, exists)

	info, err := os.Stat(filepath.Join(dir, "localhost.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.Equal(t, first.Certificate[0], second.Certificate[0], "a valid certificate is reused")

	parsed, err := x509.ParseCertificate(first.Certificate[0])
	require.NoError(t, err)
	assert.NoError(t, parsed.VerifyHostname("localhost"))
	assert.NoError(t, parsed.VerifyHostname("127.0.0.1"))
}

func TestGetOrCreateCertificate_ReplacesExpired(t *testing.T) {
	m := NewFileManager(t.TempDir())
	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(Validity + time.Hour) }
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, first.Certificate[0], second.Certificate[0])
}

func TestGetOrCreateCertificate_ReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)
	require.NoError(t, os.WriteFile(m.CertFile(), []byte("not a certificate"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "localhost.key"), []byte("not a key"), 0o600))

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
}
