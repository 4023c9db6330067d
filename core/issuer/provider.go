package issuer

import (
	"log/slog"
	"time"

	"github.com/go-acme/lego/v4/challenge/http01"

	"github.com/luciusmagn/sozu-acme/core/logger"
)

// challengeResponder is the responder surface the provider drives.
// Satisfied by *responder.Responder.
type challengeResponder interface {
	Start() error
	Addr() (string, error)
	Done() <-chan bool
	Shutdown()
}

// routeProvider wires the issuance flow into the ACME client's challenge
// hooks. Present runs before the CA validates, CleanUp after; the provider
// records what it learned so Run can classify the outcome afterwards.
type routeProvider struct {
	seq          Sequencer
	log          *slog.Logger
	appID        string
	settleDelay  time.Duration
	newResponder func(path, keyAuth string) challengeResponder

	responder   challengeResponder
	path        string
	backendAddr string
	observed    bool
	removed     bool
	fatal       error
}

// Present starts the challenge responder, installs the temporary route
// pointing at it, and lets the route settle before the CA fetches the proof.
// Returning an error aborts the ACME exchange.
func (p *routeProvider) Present(domain, token, keyAuth string) error {
	p.path = http01.ChallengePath(token)
	p.log.Debug("http challenge received",
		logger.Domain(domain),
		logger.Path(p.path))

	resp := p.newResponder(p.path, keyAuth)
	if err := resp.Start(); err != nil {
		p.fatal = err
		return err
	}
	p.responder = resp

	addr, err := resp.Addr()
	if err != nil {
		p.fatal = err
		resp.Shutdown()
		return err
	}
	p.backendAddr = addr

	p.log.Info("setting up proxying", logger.Address(addr))

	ok, err := p.seq.SetUpProxying(p.appID, domain, p.path, addr)
	if err != nil {
		p.fatal = err
		resp.Shutdown()
		return err
	}
	if !ok {
		p.fatal = ErrRouteSetup
		resp.Shutdown()
		return ErrRouteSetup
	}

	// Pragmatic wait for the route to propagate, not a readiness check.
	time.Sleep(p.settleDelay)

	p.log.Info("launching validation", logger.Domain(domain))
	return nil
}

// CleanUp joins the responder to learn whether the challenge request was
// observed, then removes the temporary route. Teardown is best-effort: its
// failure is logged, never escalated. After a fatal Present no cleanup is
// attempted; the run is aborting.
func (p *routeProvider) CleanUp(domain, token, keyAuth string) error {
	if p.fatal != nil || p.responder == nil {
		return nil
	}

	p.responder.Shutdown()
	p.observed = <-p.responder.Done()

	ok, err := p.seq.RemoveProxying(p.appID, domain, p.path, p.backendAddr)
	if err != nil {
		p.fatal = err
		return err
	}

	p.removed = ok
	if !ok {
		p.log.Error("could not deactivate proxying")
	}

	return nil
}
