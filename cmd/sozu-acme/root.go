package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/luciusmagn/sozu-acme/core/acme"
	"github.com/luciusmagn/sozu-acme/core/certstore"
	"github.com/luciusmagn/sozu-acme/core/config"
	"github.com/luciusmagn/sozu-acme/core/issuer"
	"github.com/luciusmagn/sozu-acme/core/logger"
	"github.com/luciusmagn/sozu-acme/core/order"
	"github.com/luciusmagn/sozu-acme/core/proxy"
)

var (
	configFile string
	domain     string
	email      string
	appID      string
	certPath   string
	chainPath  string
	keyPath    string
)

var rootCmd = &cobra.Command{
	Use:          "sozu-acme",
	Short:        "ACME (Let's Encrypt) configuration tool for the sozu reverse proxy",
	Long: `sozu-acme obtains a domain-validated certificate over the ACME HTTP-01
challenge and installs it into a running sozu proxy through the proxy's
command socket, without restarting the proxy. The process runs once per
issuance and exits.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "path to the proxy configuration file")
	flags.StringVar(&domain, "domain", "", "application's domain name")
	flags.StringVar(&email, "email", "", "ACME registration email")
	flags.StringVar(&appID, "id", "", "application identifier")
	flags.StringVar(&certPath, "certificate", "", "certificate output path")
	flags.StringVar(&chainPath, "chain", "", "certificate chain output path")
	flags.StringVar(&keyPath, "key", "", "private key output path")

	for _, name := range []string{"config", "domain", "email", "id", "certificate", "chain", "key"} {
		_ = rootCmd.MarkFlagRequired(name)
	}
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := config.LoadOptions()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: opts.SlogLevel()}))
	log.Info("starting up")

	proxyCfg, err := config.LoadProxyConfig(configFile)
	if err != nil {
		return err
	}

	var channelOpts []proxy.Option
	if opts.MaxFrameSize > 0 {
		channelOpts = append(channelOpts, proxy.WithMaxFrameSize(opts.MaxFrameSize))
	}

	channel, err := proxy.Connect(proxyCfg.CommandSocket, channelOpts...)
	if err != nil {
		return err
	}
	defer channel.Close()

	log.Info("got channel, connecting to the ACME directory",
		logger.Path(proxyCfg.CommandSocket))

	var acmeOpts []acme.Option
	if opts.DirectoryURL != "" {
		acmeOpts = append(acmeOpts, acme.WithDirectoryURL(opts.DirectoryURL))
	}

	acmeClient, err := acme.NewClient(email, acmeOpts...)
	if err != nil {
		return err
	}

	store := certstore.New()
	seq := order.New(channel, store, log)

	iss := issuer.New(seq, acmeClient, store, log, issuer.Params{
		AppID:       appID,
		Domain:      domain,
		CertPath:    certPath,
		ChainPath:   chainPath,
		KeyPath:     keyPath,
		SettleDelay: opts.SettleDelay,
	})

	res, err := iss.Run(cmd.Context())
	if err != nil {
		return err
	}

	if !res.Succeeded() {
		return errors.New("issuance did not complete, see log for details")
	}

	log.Info("issuance complete", logger.Domain(domain))
	return nil
}
