package order

import "errors"

// ErrCorrelationMismatch is returned when an answer echoes an id other than
// the outstanding request's. Once correlation breaks, every subsequent frame
// on the channel is suspect, so callers abort the whole run.
var ErrCorrelationMismatch = errors.New("answer id does not match request id")
