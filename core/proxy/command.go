package proxy

// Kind identifies a command variant on the wire.
type Kind string

const (
	KindAddRoute          Kind = "ADD_ROUTE"
	KindRemoveRoute       Kind = "REMOVE_ROUTE"
	KindAddBackend        Kind = "ADD_BACKEND"
	KindRemoveBackend     Kind = "REMOVE_BACKEND"
	KindAddCertificate    Kind = "ADD_CERTIFICATE"
	KindRemoveCertificate Kind = "REMOVE_CERTIFICATE"
)

// Command is a proxy mutation intent. The set of variants is closed: every
// implementation lives in this package, so consumers can switch over Kind
// exhaustively and the compiler flags a new variant as an unhandled case.
type Command interface {
	Kind() Kind

	// isCommand seals the interface to this package.
	isCommand()
}

// AddRoute maps a hostname and path prefix to an application. A non-empty
// Fingerprint binds the route to an installed certificate, making it an
// HTTPS route; an empty Fingerprint declares a plain HTTP route.
type AddRoute struct {
	AppID       string `json:"app_id"`
	Hostname    string `json:"hostname"`
	PathPrefix  string `json:"path_prefix"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func (AddRoute) Kind() Kind { return KindAddRoute }
func (AddRoute) isCommand() {}

// RemoveRoute removes a previously installed route.
type RemoveRoute struct {
	AppID       string `json:"app_id"`
	Hostname    string `json:"hostname"`
	PathPrefix  string `json:"path_prefix"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func (RemoveRoute) Kind() Kind { return KindRemoveRoute }
func (RemoveRoute) isCommand() {}

// AddBackend registers a network endpoint the proxy forwards matched traffic to.
type AddBackend struct {
	AppID     string `json:"app_id"`
	BackendID string `json:"backend_id"`
	Address   string `json:"address"`
}

func (AddBackend) Kind() Kind { return KindAddBackend }
func (AddBackend) isCommand() {}

// RemoveBackend deregisters a backend endpoint.
type RemoveBackend struct {
	AppID     string `json:"app_id"`
	BackendID string `json:"backend_id"`
	Address   string `json:"address"`
}

func (RemoveBackend) Kind() Kind { return KindRemoveBackend }
func (RemoveBackend) isCommand() {}

// AddCertificate installs a certificate, its chain and private key. The
// Fingerprint is the hex SHA-256 of the leaf certificate's DER bytes and
// serves as the certificate's reference identity for route binding.
type AddCertificate struct {
	Certificate string   `json:"certificate"`
	Chain       []string `json:"certificate_chain"`
	Key         string   `json:"key"`
	Fingerprint string   `json:"fingerprint"`
	Names       []string `json:"names"`
}

func (AddCertificate) Kind() Kind { return KindAddCertificate }
func (AddCertificate) isCommand() {}

// RemoveCertificate removes an installed certificate by fingerprint.
type RemoveCertificate struct {
	Fingerprint string `json:"fingerprint"`
}

func (RemoveCertificate) Kind() Kind { return KindRemoveCertificate }
func (RemoveCertificate) isCommand() {}
