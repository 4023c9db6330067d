package acme

import "errors"

var (
	// ErrEmailRequired is returned when no registration email is provided.
	ErrEmailRequired = errors.New("email is required for account registration")

	// ErrEmptyCertificate is returned when the CA hands back an empty
	// certificate payload.
	ErrEmptyCertificate = errors.New("empty certificate received from ACME server")
)
