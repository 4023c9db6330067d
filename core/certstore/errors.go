package certstore

import "errors"

var (
	// ErrNoCertificate is returned when PEM data contains no certificate block.
	ErrNoCertificate = errors.New("no certificate found in PEM data")

	// ErrEmptyArtifact is returned when a certificate artifact to persist is empty.
	ErrEmptyArtifact = errors.New("empty certificate artifact")
)
