package issuer

import "errors"

// ErrRouteSetup is returned when the temporary challenge route could not be
// installed. Validation cannot proceed without routing, so the run aborts.
var ErrRouteSetup = errors.New("could not set up proxying to the challenge responder")
