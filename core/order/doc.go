// Package order executes proxy commands to completion over the control
// channel and classifies their outcomes.
//
// Dispatch implements the protocol's core state machine: send one envelope,
// then drain answers until a terminal status arrives. PROCESSING answers are
// progress notifications and keep the loop going; OK and ERROR terminate it.
// An answer whose id does not match the outstanding request breaks the
// correlation contract — the channel can no longer be trusted, and Dispatch
// reports ErrCorrelationMismatch, which callers must treat as fatal.
//
// On top of Dispatch, the Sequencer offers the three compound operations the
// issuance flow needs: installing the temporary challenge route, tearing it
// down, and installing the signed certificate with its permanent route.
package order
