package responder

import "errors"

// ErrNotStarted is returned when the responder's address is requested before Start.
var ErrNotStarted = errors.New("responder not started")
