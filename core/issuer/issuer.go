package issuer

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-acme/lego/v4/challenge"

	"github.com/luciusmagn/sozu-acme/core/acme"
	"github.com/luciusmagn/sozu-acme/core/logger"
	"github.com/luciusmagn/sozu-acme/core/responder"
)

// Sequencer is the slice of the order sequencer the issuer drives.
type Sequencer interface {
	SetUpProxying(appID, hostname, pathPrefix, backendAddr string) (bool, error)
	RemoveProxying(appID, hostname, pathPrefix, backendAddr string) (bool, error)
	InstallCertificate(appID, hostname, certPath, chainPath, keyPath string) (bool, error)
}

// ACMEClient obtains one certificate per run. Satisfied by *acme.Client.
type ACMEClient interface {
	Obtain(ctx context.Context, domain string, provider challenge.Provider) (*acme.Certificate, error)
}

// ArtifactWriter persists issued certificate material. Satisfied by *certstore.Store.
type ArtifactWriter interface {
	WriteArtifacts(certPath, chainPath, keyPath string, cert, chain, key []byte) error
}

// Params identify one issuance run.
type Params struct {
	AppID       string
	Domain      string
	CertPath    string
	ChainPath   string
	KeyPath     string
	SettleDelay time.Duration
}

// Result is the machine-readable outcome of a run. Step flags are recorded
// in execution order; a later step is attempted only where the flow allows
// it (installation proceeds even after a failed teardown, never after a
// failed validation).
type Result struct {
	DomainValidated      bool
	RouteRemoved         bool
	CertificateSaved     bool
	CertificateInstalled bool
}

// Succeeded reports whether the run achieved its goal: a validated domain
// with the certificate saved and installed. A failed teardown of the
// temporary route degrades the run but does not fail it.
func (r Result) Succeeded() bool {
	return r.DomainValidated && r.CertificateSaved && r.CertificateInstalled
}

// Issuer coordinates one issuance run.
type Issuer struct {
	seq          Sequencer
	acme         ACMEClient
	store        ArtifactWriter
	log          *slog.Logger
	params       Params
	newResponder func(path, keyAuth string) challengeResponder
}

// New creates an issuer for one run.
func New(seq Sequencer, acmeClient ACMEClient, store ArtifactWriter, log *slog.Logger, params Params) *Issuer {
	if log == nil {
		log = slog.Default()
	}

	i := &Issuer{
		seq:    seq,
		acme:   acmeClient,
		store:  store,
		log:    log,
		params: params,
		newResponder: func(path, keyAuth string) challengeResponder {
			return responder.New(path, keyAuth, log)
		},
	}

	return i
}

// Run executes the issuance flow. The returned error is non-nil only for
// fatal conditions (route setup refused, correlation break); every other
// failure is logged and reflected in the Result. Callers decide process exit
// from Result.Succeeded.
func (i *Issuer) Run(ctx context.Context) (Result, error) {
	var res Result

	prov := &routeProvider{
		seq:          i.seq,
		log:          i.log,
		appID:        i.params.AppID,
		settleDelay:  i.params.SettleDelay,
		newResponder: i.newResponder,
	}

	cert, obtainErr := i.acme.Obtain(ctx, i.params.Domain, prov)

	res.DomainValidated = prov.observed
	res.RouteRemoved = prov.removed

	if prov.fatal != nil {
		return res, prov.fatal
	}

	if obtainErr != nil {
		if !prov.observed {
			i.log.Error("did not receive challenge request",
				logger.Domain(i.params.Domain),
				logger.Error(obtainErr))
		} else {
			i.log.Error("could not obtain certificate",
				logger.Domain(i.params.Domain),
				logger.Error(obtainErr))
		}
		return res, nil
	}

	if err := i.store.WriteArtifacts(
		i.params.CertPath, i.params.ChainPath, i.params.KeyPath,
		cert.Certificate, cert.IssuerChain, cert.PrivateKey,
	); err != nil {
		i.log.Error("could not save certificate", logger.Error(err))
		return res, nil
	}
	res.CertificateSaved = true
	i.log.Info("new certificate saved", logger.Path(i.params.CertPath))

	installed, err := i.seq.InstallCertificate(
		i.params.AppID, i.params.Domain,
		i.params.CertPath, i.params.ChainPath, i.params.KeyPath)
	if err != nil {
		return res, err
	}

	res.CertificateInstalled = installed
	if installed {
		i.log.Info("new certificate set up", logger.Domain(i.params.Domain))
	} else {
		i.log.Error("could not add new certificate", logger.Domain(i.params.Domain))
	}

	return res, nil
}
