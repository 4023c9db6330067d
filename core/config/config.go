package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ProxyConfig is the slice of the reverse proxy's TOML configuration this
// tool needs: where to reach the proxy's command socket.
type ProxyConfig struct {
	CommandSocket string `toml:"command_socket"`
}

// LoadProxyConfig parses the proxy's configuration file.
func LoadProxyConfig(path string) (*ProxyConfig, error) {
	var cfg ProxyConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse proxy configuration %s: %w", path, err)
	}

	if strings.TrimSpace(cfg.CommandSocket) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingCommandSocket)
	}

	return &cfg, nil
}

// Options are the ambient knobs of a run, loaded from the environment.
// An empty DirectoryURL selects Let's Encrypt production.
type Options struct {
	DirectoryURL string        `env:"SOZU_ACME_DIRECTORY_URL"`
	SettleDelay  time.Duration `env:"SOZU_ACME_SETTLE_DELAY" envDefault:"100ms"`
	MaxFrameSize int           `env:"SOZU_ACME_MAX_FRAME_SIZE"`
	LogLevel     string        `env:"SOZU_ACME_LOG_LEVEL" envDefault:"info"`
}

// SlogLevel maps the configured log level onto slog. Unknown values fall
// back to info.
func (o Options) SlogLevel() slog.Level {
	switch strings.ToLower(o.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var loadDotEnv sync.Once

// LoadOptions reads ambient options from the environment. A .env file in the
// working directory is loaded once, if present.
func LoadOptions() (Options, error) {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("parse environment options: %w", err)
	}

	return opts, nil
}
