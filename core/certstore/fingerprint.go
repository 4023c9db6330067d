package certstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/pem"
	"strings"
)

const (
	pemCertBegin = "-----BEGIN CERTIFICATE-----"
	pemCertEnd   = "-----END CERTIFICATE-----"
)

// Fingerprint computes the hex-encoded SHA-256 digest of the first
// certificate's DER bytes in the given PEM data. The digest is the
// certificate's reference identity when binding routes to it.
func Fingerprint(pemData []byte) (string, error) {
	block, _ := pem.Decode(pemData)
	if block == nil || block.Type != "CERTIFICATE" {
		return "", ErrNoCertificate
	}

	sum := sha256.Sum256(block.Bytes)
	return hex.EncodeToString(sum[:]), nil
}

// SplitChain splits a PEM bundle of concatenated certificates into
// individual PEM-encoded certificates, preserving their order.
func SplitChain(bundle string) []string {
	var (
		chain   []string
		current []string
		inside  bool
	)

	for _, line := range strings.Split(bundle, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == pemCertBegin:
			inside = true
			current = []string{trimmed}
		case trimmed == pemCertEnd && inside:
			current = append(current, trimmed)
			chain = append(chain, strings.Join(current, "\n")+"\n")
			current = nil
			inside = false
		case inside && trimmed != "":
			current = append(current, trimmed)
		}
	}

	return chain
}
