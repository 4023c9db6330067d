// Package config loads the two configuration surfaces of the tool.
//
// The proxy configuration is the reverse proxy's own TOML file; the only
// field this tool reads from it is the command socket path. Ambient options
// (ACME directory URL, settle delay, frame size limit, log level) come from
// environment variables, with a .env file loaded automatically on first use:
//
//	type Options struct {
//		SettleDelay time.Duration `env:"SOZU_ACME_SETTLE_DELAY" envDefault:"100ms"`
//	}
package config
