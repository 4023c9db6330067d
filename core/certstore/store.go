package certstore

import (
	"fmt"
	"os"
)

// Bundle is certificate material loaded from disk, ready to be installed
// through the control channel.
type Bundle struct {
	Certificate string
	Chain       []string
	Key         string
	Fingerprint string
}

// Store performs the certificate file operations for a run. Paths are
// supplied per call; the store itself carries no state.
type Store struct{}

// New creates a certificate store.
func New() *Store {
	return &Store{}
}

// Load reads the certificate, chain and key files and prepares them for the
// control channel: the chain bundle is split into individual certificates and
// the leaf certificate's fingerprint is computed. Any read or parse failure
// aborts the load before the control channel is involved.
func (s *Store) Load(certPath, chainPath, keyPath string) (*Bundle, error) {
	cert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}

	fingerprint, err := Fingerprint(cert)
	if err != nil {
		return nil, fmt.Errorf("fingerprint certificate %s: %w", certPath, err)
	}

	chain, err := os.ReadFile(chainPath)
	if err != nil {
		return nil, fmt.Errorf("load certificate chain: %w", err)
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}

	return &Bundle{
		Certificate: string(cert),
		Chain:       SplitChain(string(chain)),
		Key:         string(key),
		Fingerprint: fingerprint,
	}, nil
}

// WriteArtifacts persists freshly issued certificate material. The private
// key is written with 0600 permissions, public material with 0644. An empty
// chain is allowed (some CAs inline the chain into the certificate bundle);
// an empty certificate or key is not.
func (s *Store) WriteArtifacts(certPath, chainPath, keyPath string, cert, chain, key []byte) error {
	if len(cert) == 0 {
		return fmt.Errorf("certificate: %w", ErrEmptyArtifact)
	}
	if len(key) == 0 {
		return fmt.Errorf("key: %w", ErrEmptyArtifact)
	}

	if err := writeAtomic(certPath, cert, 0o644); err != nil {
		return fmt.Errorf("write certificate: %w", err)
	}

	if err := writeAtomic(chainPath, chain, 0o644); err != nil {
		return fmt.Errorf("write certificate chain: %w", err)
	}

	if err := writeAtomic(keyPath, key, 0o600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}

	return nil
}

// writeAtomic writes via a temp file and rename so a crashed run never leaves
// a truncated artifact behind.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Best effort cleanup
		return err
	}

	return nil
}
