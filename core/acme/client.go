package acme

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
)

// Option configures the ACME client.
type Option func(*config) error

// WithDirectoryURL overrides the ACME directory URL (defaults to Let's
// Encrypt production; point it at the staging directory for testing).
func WithDirectoryURL(url string) Option {
	return func(cfg *config) error {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			cfg.directoryURL = trimmed
		}
		return nil
	}
}

// WithKeyType overrides the key type for the issued certificate's private key.
func WithKeyType(keyType certcrypto.KeyType) Option {
	return func(cfg *config) error {
		if keyType != "" {
			cfg.keyType = keyType
		}
		return nil
	}
}

type config struct {
	email        string
	directoryURL string
	keyType      certcrypto.KeyType
}

// Client obtains certificates from an ACME CA.
type Client struct {
	cfg             config
	clientFactory   clientFactory
	accountKeyMaker func() (crypto.PrivateKey, error)
}

// NewClient constructs a client for the given account email.
func NewClient(email string, opts ...Option) (*Client, error) {
	cfg := config{
		email:        strings.TrimSpace(email),
		directoryURL: lego.LEDirectoryProduction,
		keyType:      certcrypto.RSA2048,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.email == "" {
		return nil, ErrEmailRequired
	}

	return &Client{
		cfg:           cfg,
		clientFactory: defaultClientFactory,
		accountKeyMaker: func() (crypto.PrivateKey, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		},
	}, nil
}

// Certificate is the signed material returned by the CA.
type Certificate struct {
	Domain      string
	Certificate []byte
	IssuerChain []byte
	PrivateKey  []byte
}

// Obtain registers a fresh account and obtains a certificate for the domain.
// The provider answers the HTTP-01 challenge; lego calls its Present before
// triggering validation and its CleanUp afterwards. Blocking: the call
// returns only when the CA has issued or refused the certificate.
func (c *Client) Obtain(ctx context.Context, domain string, provider challenge.Provider) (*Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accountKey, err := c.accountKeyMaker()
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}

	user := &accountUser{
		email: c.cfg.email,
		key:   accountKey,
	}

	legoCfg := lego.NewConfig(user)
	legoCfg.CADirURL = c.cfg.directoryURL
	legoCfg.Certificate.KeyType = c.cfg.keyType

	client, err := c.clientFactory(legoCfg)
	if err != nil {
		return nil, fmt.Errorf("create acme client: %w", err)
	}

	if err := client.SetHTTP01Provider(provider); err != nil {
		return nil, fmt.Errorf("configure http-01 provider: %w", err)
	}

	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	user.registration = reg

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := client.Obtain(certificate.ObtainRequest{
		Domains:        []string{domain},
		Bundle:         true,
		EmailAddresses: []string{c.cfg.email},
	})
	if err != nil {
		return nil, fmt.Errorf("obtain certificate: %w", err)
	}

	if len(res.Certificate) == 0 {
		return nil, ErrEmptyCertificate
	}

	return &Certificate{
		Domain:      domain,
		Certificate: res.Certificate,
		IssuerChain: res.IssuerCertificate,
		PrivateKey:  res.PrivateKey,
	}, nil
}

type clientFactory func(*lego.Config) (acmeClient, error)

type acmeClient interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	Obtain(request certificate.ObtainRequest) (*certificate.Resource, error)
}

func defaultClientFactory(cfg *lego.Config) (acmeClient, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &legoClientAdapter{client: client}, nil
}

type legoClientAdapter struct {
	client *lego.Client
}

func (l *legoClientAdapter) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options)
}

func (l *legoClientAdapter) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider)
}

func (l *legoClientAdapter) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	return l.client.Certificate.Obtain(request)
}

type accountUser struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *accountUser) GetEmail() string {
	return u.email
}

func (u *accountUser) GetRegistration() *registration.Resource {
	return u.registration
}

func (u *accountUser) GetPrivateKey() crypto.PrivateKey {
	return u.key
}
