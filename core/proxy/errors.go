package proxy

import "errors"

var (
	// ErrConnectionFailed is returned when the proxy's command socket cannot be reached.
	ErrConnectionFailed = errors.New("connection to command socket failed")

	// ErrChannelClosed is returned by Receive when the transport is closed.
	ErrChannelClosed = errors.New("command channel closed")

	// ErrFrameTooLarge is returned when an inbound frame exceeds the size limit.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")

	// ErrInvalidFrame is returned when an inbound frame cannot be decoded.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrUnknownCommand is returned when decoding an envelope with an
	// unrecognized command type.
	ErrUnknownCommand = errors.New("unknown command type")
)
