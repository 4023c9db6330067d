package config

import "errors"

// ErrMissingCommandSocket is returned when the proxy configuration does not
// declare a command socket path.
var ErrMissingCommandSocket = errors.New("proxy configuration has no command_socket")
