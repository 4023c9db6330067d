// Package responder serves the ACME HTTP-01 proof of possession from an
// ephemeral loopback port.
//
// The responder is single-shot: it answers requests sequentially until the
// expected challenge path is fetched, responds with the key authorization,
// then stops serving and signals success on its one-shot completion channel.
// Any other path gets a 404 and serving continues. A transport-level error
// stops serving and signals failure.
//
// Requests are handled one accept at a time. Challenge validation is a single
// external fetch, so concurrent handling would buy nothing and would
// complicate the stop-after-first-match contract.
package responder
