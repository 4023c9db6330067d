// Package acme wraps the lego ACME client behind the narrow surface the
// issuance flow needs: register an account and obtain one certificate for
// one domain, with the HTTP-01 challenge answered by a caller-supplied
// challenge.Provider.
//
// The provider seam is the integration point for the rest of the tool: the
// issuer package installs the temporary proxy route and starts the local
// challenge responder inside Present, so the route is live before the CA
// fetches the proof.
//
// A fresh ACME account is registered per run; the process is designed to run
// once per issuance and exit, so no account state is persisted.
package acme
