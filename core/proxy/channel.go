package proxy

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// defaultMaxFrameSize bounds inbound frames. Certificate payloads are the
// largest messages on this channel and stay well under a megabyte.
const defaultMaxFrameSize = 16 << 20

// frameHeaderSize is the length prefix: an unsigned 32-bit big-endian payload size.
const frameHeaderSize = 4

// Channel is a blocking, length-framed JSON codec over a single persistent
// connection to the proxy's command socket. It is owned by exactly one
// goroutine at a time: Send and Receive block the caller until the I/O
// completes, and only one envelope may be outstanding.
type Channel struct {
	conn         net.Conn
	reader       *bufio.Reader
	maxFrameSize uint32
}

// Option configures a Channel.
type Option func(*Channel)

// WithMaxFrameSize overrides the inbound frame size limit.
// Non-positive values are ignored.
func WithMaxFrameSize(n int) Option {
	return func(c *Channel) {
		if n > 0 {
			c.maxFrameSize = uint32(n)
		}
	}
}

// Connect dials the proxy's unix command socket. An unreachable socket means
// there is no proxy to configure, so callers treat the error as fatal.
func Connect(socketPath string, opts ...Option) (*Channel, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnectionFailed, socketPath, err)
	}

	return NewChannel(conn, opts...), nil
}

// NewChannel wraps an established connection. Useful for tests driving the
// codec over an in-memory pipe.
func NewChannel(conn net.Conn, opts ...Option) *Channel {
	c := &Channel{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		maxFrameSize: defaultMaxFrameSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send serializes the envelope and writes it as one length-prefixed frame.
// It blocks until the frame is fully written.
func (c *Channel) Send(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope %s: %w", env.ID, err)
	}

	if uint32(len(payload)) > c.maxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	// Header and payload go out in a single write so a frame is never
	// interleaved with another writer's bytes.
	frame := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("write envelope %s: %w", env.ID, err)
	}

	return nil
}

// Receive blocks until one framed Answer is read. A closed transport yields
// ErrChannelClosed; the caller reports that upstream as "the proxy did not
// answer" rather than treating it as a protocol failure.
func (c *Channel) Receive() (*Answer, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(c.reader, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrChannelClosed
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > c.maxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(c.reader, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrChannelClosed
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	var answer Answer
	if err := json.Unmarshal(payload, &answer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	return &answer, nil
}

// Close closes the underlying connection.
func (c *Channel) Close() error {
	return c.conn.Close()
}
