package order

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/luciusmagn/sozu-acme/core/certstore"
	"github.com/luciusmagn/sozu-acme/core/logger"
	"github.com/luciusmagn/sozu-acme/core/proxy"
)

// Transport is the control-channel surface the sequencer needs. Satisfied by
// *proxy.Channel; tests substitute scripted fakes.
type Transport interface {
	Send(env proxy.Envelope) error
	Receive() (*proxy.Answer, error)
}

// CertificateLoader prepares certificate material for installation.
// Satisfied by *certstore.Store.
type CertificateLoader interface {
	Load(certPath, chainPath, keyPath string) (*certstore.Bundle, error)
}

// Sequencer executes commands against the control channel one at a time.
// It owns the channel exclusively: no other goroutine may touch the transport
// while a request is outstanding.
type Sequencer struct {
	transport Transport
	loader    CertificateLoader
	log       *slog.Logger
	newID     func() string
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithIDGenerator overrides request-id generation. Ids must be unique per
// outstanding request; the correlation check depends on it.
func WithIDGenerator(fn func() string) Option {
	return func(s *Sequencer) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a sequencer over the given transport.
func New(transport Transport, loader CertificateLoader, log *slog.Logger, opts ...Option) *Sequencer {
	if log == nil {
		log = slog.Default()
	}

	s := &Sequencer{
		transport: transport,
		loader:    loader,
		log:       log,
		newID: func() string {
			return "ID-" + uuid.NewString()
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BackendID derives the backend identifier from the application id, so that
// add/remove pairs for the same logical target always agree.
func BackendID(appID string) string {
	return appID + "-0"
}

// Dispatch sends one command and drains answers until a terminal status.
// The boolean reports whether the proxy executed the command. The error is
// non-nil only for the fatal correlation break: every other failure — the
// proxy not answering, or answering ERROR — is logged and reported as false.
func (s *Sequencer) Dispatch(cmd proxy.Command) (bool, error) {
	id := s.newID()

	if err := s.transport.Send(proxy.NewEnvelope(id, cmd)); err != nil {
		s.log.Error("could not send order",
			logger.Command(string(cmd.Kind())),
			logger.RequestID(id),
			logger.Error(err))
		return false, nil
	}

	for {
		answer, err := s.transport.Receive()
		if err != nil {
			s.log.Error("the proxy did not answer",
				logger.Command(string(cmd.Kind())),
				logger.RequestID(id),
				logger.Error(err))
			return false, nil
		}

		if answer.ID != id {
			s.log.Error("received answer with mismatched id",
				logger.RequestID(id),
				slog.String("answer_id", answer.ID))
			return false, fmt.Errorf("%w: sent %s, received %s", ErrCorrelationMismatch, id, answer.ID)
		}

		switch answer.Status {
		case proxy.StatusProcessing:
			// Progress notification; more answers follow for this request.
			continue

		case proxy.StatusError:
			s.log.Error("could not execute order",
				logger.Command(string(cmd.Kind())),
				slog.String("message", answer.Message))
			return false, nil

		case proxy.StatusOK:
			s.log.Info(successMessage(cmd), slog.String("message", answer.Message))
			return true, nil

		default:
			s.log.Error("received answer with unknown status",
				logger.Command(string(cmd.Kind())),
				slog.String("status", string(answer.Status)))
			return false, nil
		}
	}
}

// successMessage selects the human-readable success line for a command.
// The command set is closed; a new variant must be added here.
func successMessage(cmd proxy.Command) string {
	switch cmd.(type) {
	case proxy.AddRoute:
		return "front added"
	case proxy.RemoveRoute:
		return "front removed"
	case proxy.AddBackend:
		return "backend added"
	case proxy.RemoveBackend:
		return "backend removed"
	case proxy.AddCertificate:
		return "certificate added"
	case proxy.RemoveCertificate:
		return "certificate removed"
	}
	return "order executed"
}

// SetUpProxying installs the temporary challenge route and its backend.
// Short-circuits: the backend is never registered if the route fails.
func (s *Sequencer) SetUpProxying(appID, hostname, pathPrefix, backendAddr string) (bool, error) {
	ok, err := s.Dispatch(proxy.AddRoute{
		AppID:      appID,
		Hostname:   hostname,
		PathPrefix: pathPrefix,
	})
	if err != nil || !ok {
		return false, err
	}

	return s.Dispatch(proxy.AddBackend{
		AppID:     appID,
		BackendID: BackendID(appID),
		Address:   backendAddr,
	})
}

// RemoveProxying tears the temporary route down. Both removals are attempted
// even if the first fails; the result is true only when both succeeded.
func (s *Sequencer) RemoveProxying(appID, hostname, pathPrefix, backendAddr string) (bool, error) {
	routeOK, err := s.Dispatch(proxy.RemoveRoute{
		AppID:      appID,
		Hostname:   hostname,
		PathPrefix: pathPrefix,
	})
	if err != nil {
		return false, err
	}

	backendOK, err := s.Dispatch(proxy.RemoveBackend{
		AppID:     appID,
		BackendID: BackendID(appID),
		Address:   backendAddr,
	})
	if err != nil {
		return false, err
	}

	return routeOK && backendOK, nil
}

// InstallCertificate loads the certificate bundle from disk and installs it
// together with the permanent route bound to its fingerprint. Load or
// fingerprint failures short-circuit before any channel traffic; the route
// is never installed if the certificate was refused.
func (s *Sequencer) InstallCertificate(appID, hostname, certPath, chainPath, keyPath string) (bool, error) {
	bundle, err := s.loader.Load(certPath, chainPath, keyPath)
	if err != nil {
		s.log.Error("could not load certificate bundle",
			logger.Path(certPath),
			logger.Error(err))
		return false, nil
	}

	ok, err := s.Dispatch(proxy.AddCertificate{
		Certificate: bundle.Certificate,
		Chain:       bundle.Chain,
		Key:         bundle.Key,
		Fingerprint: bundle.Fingerprint,
		Names:       []string{hostname},
	})
	if err != nil || !ok {
		return false, err
	}

	return s.Dispatch(proxy.AddRoute{
		AppID:       appID,
		Hostname:    hostname,
		PathPrefix:  "",
		Fingerprint: bundle.Fingerprint,
	})
}
