// Package certstore handles the certificate artifacts on disk: loading a
// PEM bundle for installation into the proxy, splitting a chain bundle into
// individual certificates, computing the SHA-256 fingerprint that identifies
// a certificate on the control channel, and persisting freshly issued
// artifacts with atomic writes.
//
// # Types
//
//   - Store: file operations for certificate, chain and key paths
//   - Bundle: in-memory certificate material ready for the control channel
//
// # Errors
//
//   - ErrNoCertificate: PEM data contains no certificate block
package certstore
