package certstore_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/luciusmagn/sozu-acme/core/certstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateCertificate creates a self-signed certificate and returns the PEM
// encodings of the certificate, its private key, and the certificate's DER bytes.
func generateCertificate(t *testing.T, commonName string) (certPEM, keyPEM, der []byte) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{commonName},
	}

	der, err = x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	return certPEM, keyPEM, der
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("hashes the certificate DER bytes", func(t *testing.T) {
		t.Parallel()

		certPEM, _, der := generateCertificate(t, "example.test")

		fingerprint, err := certstore.Fingerprint(certPEM)
		require.NoError(t, err)

		expected := sha256.Sum256(der)
		assert.Equal(t, hex.EncodeToString(expected[:]), fingerprint)
	})

	t.Run("rejects data without a certificate block", func(t *testing.T) {
		t.Parallel()

		_, err := certstore.Fingerprint([]byte("not pem at all"))
		assert.ErrorIs(t, err, certstore.ErrNoCertificate)
	})

	t.Run("rejects non-certificate PEM blocks", func(t *testing.T) {
		t.Parallel()

		_, keyPEM, _ := generateCertificate(t, "example.test")

		_, err := certstore.Fingerprint(keyPEM)
		assert.ErrorIs(t, err, certstore.ErrNoCertificate)
	})
}

func TestSplitChain(t *testing.T) {
	t.Parallel()

	t.Run("splits concatenated certificates", func(t *testing.T) {
		t.Parallel()

		first, _, _ := generateCertificate(t, "intermediate.test")
		second, _, _ := generateCertificate(t, "root.test")

		chain := certstore.SplitChain(string(first) + string(second))
		require.Len(t, chain, 2)
		assert.Contains(t, chain[0], "BEGIN CERTIFICATE")
		assert.Contains(t, chain[1], "BEGIN CERTIFICATE")
		assert.NotEqual(t, chain[0], chain[1])
	})

	t.Run("returns nothing for an empty bundle", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, certstore.SplitChain(""))
	})

	t.Run("ignores trailing garbage outside certificate blocks", func(t *testing.T) {
		t.Parallel()

		cert, _, _ := generateCertificate(t, "example.test")

		chain := certstore.SplitChain("junk before\n" + string(cert) + "junk after\n")
		assert.Len(t, chain, 1)
	})
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads a complete bundle", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		certPEM, keyPEM, der := generateCertificate(t, "example.test")
		chainPEM, _, _ := generateCertificate(t, "intermediate.test")

		certPath := filepath.Join(dir, "cert.pem")
		chainPath := filepath.Join(dir, "chain.pem")
		keyPath := filepath.Join(dir, "key.pem")
		require.NoError(t, os.WriteFile(certPath, certPEM, 0o644))
		require.NoError(t, os.WriteFile(chainPath, chainPEM, 0o644))
		require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))

		bundle, err := certstore.New().Load(certPath, chainPath, keyPath)
		require.NoError(t, err)

		expected := sha256.Sum256(der)
		assert.Equal(t, hex.EncodeToString(expected[:]), bundle.Fingerprint)
		assert.Equal(t, string(certPEM), bundle.Certificate)
		assert.Equal(t, string(keyPEM), bundle.Key)
		assert.Len(t, bundle.Chain, 1)
	})

	t.Run("fails when the certificate file is missing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := certstore.New().Load(
			filepath.Join(dir, "missing.pem"),
			filepath.Join(dir, "chain.pem"),
			filepath.Join(dir, "key.pem"))
		assert.Error(t, err)
	})

	t.Run("fails when the certificate is not parseable", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		certPath := filepath.Join(dir, "cert.pem")
		require.NoError(t, os.WriteFile(certPath, []byte("bogus"), 0o644))

		_, err := certstore.New().Load(certPath, certPath, certPath)
		assert.ErrorIs(t, err, certstore.ErrNoCertificate)
	})
}

func TestStoreWriteArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("persists certificate material", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		certPEM, keyPEM, _ := generateCertificate(t, "example.test")
		chainPEM, _, _ := generateCertificate(t, "intermediate.test")

		certPath := filepath.Join(dir, "cert.pem")
		chainPath := filepath.Join(dir, "chain.pem")
		keyPath := filepath.Join(dir, "key.pem")

		store := certstore.New()
		require.NoError(t, store.WriteArtifacts(certPath, chainPath, keyPath, certPEM, chainPEM, keyPEM))

		written, err := os.ReadFile(certPath)
		require.NoError(t, err)
		assert.Equal(t, certPEM, written)

		info, err := os.Stat(keyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("rejects an empty certificate", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := certstore.New().WriteArtifacts(
			filepath.Join(dir, "cert.pem"),
			filepath.Join(dir, "chain.pem"),
			filepath.Join(dir, "key.pem"),
			nil, nil, []byte("key"))
		assert.ErrorIs(t, err, certstore.ErrEmptyArtifact)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		err := certstore.New().WriteArtifacts(
			filepath.Join(dir, "cert.pem"),
			filepath.Join(dir, "chain.pem"),
			filepath.Join(dir, "key.pem"),
			[]byte("cert"), nil, nil)
		assert.ErrorIs(t, err, certstore.ErrEmptyArtifact)
	})
}
