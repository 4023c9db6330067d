// Package issuer drives one certificate issuance end to end: it answers the
// ACME HTTP-01 challenge through a temporary route in the running proxy,
// persists the signed certificate, and installs it with its permanent route.
//
// The ACME library owns the validation exchange, so the orchestration hooks
// into it as a challenge provider: Present starts the local responder,
// installs the temporary route pointing at it and waits a short settle delay
// before the CA is allowed to fetch the proof; CleanUp joins the responder to
// learn whether the challenge request ever arrived, then tears the temporary
// route down best-effort.
//
// Failure handling follows three tiers: a route-setup failure or a broken
// answer correlation aborts the run (Run returns an error); a CA refusal or a
// persist/install failure is logged and reflected in the Result; the
// challenge request never arriving is an expected negative outcome, not an
// error.
package issuer
