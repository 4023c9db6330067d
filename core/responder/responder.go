package responder

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/luciusmagn/sozu-acme/core/logger"
)

// Responder answers exactly one well-known challenge path with the key
// authorization, then terminates itself. The expected path and key
// authorization are immutable after construction, so they are safe to share
// with the serving goroutine.
type Responder struct {
	path    string
	keyAuth string
	log     *slog.Logger

	listener  net.Listener
	done      chan bool
	closeOnce sync.Once
}

// New creates a responder for the given challenge path and key authorization.
func New(path, keyAuthorization string, log *slog.Logger) *Responder {
	if log == nil {
		log = slog.Default()
	}

	return &Responder{
		path:    path,
		keyAuth: keyAuthorization,
		log:     log,
		done:    make(chan bool, 1),
	}
}

// Start binds an ephemeral loopback port and begins serving on its own
// goroutine. The bound address is available through Addr afterwards.
func (r *Responder) Start() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("bind challenge responder: %w", err)
	}

	r.listener = listener
	go r.serve()

	return nil
}

// Addr returns the bound address, e.g. "127.0.0.1:51000".
func (r *Responder) Addr() (string, error) {
	if r.listener == nil {
		return "", ErrNotStarted
	}
	return r.listener.Addr().String(), nil
}

// Done is the one-shot completion signal: true when the challenge request was
// observed and answered, false when serving stopped without seeing it.
// Exactly one value is ever sent.
func (r *Responder) Done() <-chan bool {
	return r.done
}

// Shutdown closes the listener, forcing the serve loop to terminate and
// signal on Done if it has not already. Safe to call repeatedly and after
// a successful match.
func (r *Responder) Shutdown() {
	r.closeOnce.Do(func() {
		if r.listener != nil {
			_ = r.listener.Close()
		}
	})
}

// serve accepts and handles connections sequentially until the challenge
// request is answered or the listener fails.
func (r *Responder) serve() {
	r.log.Info("challenge responder started")

	for {
		conn, err := r.listener.Accept()
		if err != nil {
			r.done <- false
			return
		}

		matched, err := r.handle(conn)
		_ = conn.Close()

		if err != nil {
			r.log.Error("challenge responder receive failed", logger.Error(err))
			r.Shutdown()
			r.done <- false
			return
		}

		if matched {
			r.log.Info("challenge request answered, stopping responder")
			r.Shutdown()
			r.done <- true
			return
		}
	}
}

// handle reads one HTTP request and answers it. It reports whether the
// request hit the challenge path. Only the read can fail the responder;
// a response write error is logged and the verdict stands.
func (r *Responder) handle(conn net.Conn) (bool, error) {
	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		return false, fmt.Errorf("read request: %w", err)
	}

	r.log.Info("got request", logger.Path(req.URL.Path))

	matched := req.URL.Path == r.path

	status, body := http.StatusNotFound, "not found"
	if matched {
		status, body = http.StatusOK, r.keyAuth
	}

	if err := r.respond(conn, req, status, body); err != nil {
		r.log.Error("could not write challenge response", logger.Error(err))
	}

	return matched, nil
}

func (r *Responder) respond(conn net.Conn, req *http.Request, status int, body string) error {
	resp := &http.Response{
		StatusCode:    status,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Request:       req,
		Header:        make(http.Header),
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Close:         true,
	}

	if err := resp.Write(conn); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}
