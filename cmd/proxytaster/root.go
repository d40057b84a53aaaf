package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/August26/proxytaster/internal/config"
	"github.com/August26/proxytaster/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// NewRootCmd creates the proxytaster command.
func NewRootCmd() *cobra.Command {
	defaults := config.NewConfig()

	cmd := &cobra.Command{
		Use:   "proxytaster [file | proxy...]",
		Short: "Find working proxies and the protocol they speak",
		Long: `proxytaster sends a request to a diagnostic endpoint (ipinfo.io by default)
through every proxy of a list and reports the ones that answered, with the
protocol that worked and the country the endpoint saw.

Proxies are read from a file, from the arguments or from standard input, one
per line or separated by commas or spaces:

  1.2.3.4:8080
  user:pass@1.2.3.4:1080
  1.2.3.4:1080:user:pass
  socks5://1.2.3.4:1080

A proxy without a scheme is tried as socks5, socks4, https and http, in this
order, until one works.

Examples:
  # Check a file with 500 workers and keep US and German proxies
  proxytaster -w 500 -c US,DE proxies.txt

  # Only SOCKS proxies, append the working ones to a file
  proxytaster -p socks4,socks5 -a socks.txt proxies.txt

  # JSON report
  cat proxies.txt | proxytaster -f json -o report.json

Configuration file (.proxytaster.yaml or ~/.config/proxytaster/config.yaml):
  workers: 300
  timeout: 8s
  protocols: [socks5, http]
  countries: [US]`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.Flags().StringP("out", "o", "", "Write working proxies to file (replaces it)")
	cmd.Flags().StringP("append", "a", "", "Append working proxies to file")

	cmd.Flags().IntP("workers", "w", defaults.Workers, "Number of proxies checked at once")
	cmd.Flags().DurationP("timeout", "t", defaults.Timeout, "Timeout of each diagnostic request")
	cmd.Flags().StringSliceP("protocols", "p", nil, "Protocols to try: http, https, socks4, socks5 (default all)")
	cmd.Flags().StringSlice("precedence", nil, "Order in which protocols are tried (default socks5,socks4,https,http)")
	cmd.Flags().String("endpoint", defaults.Endpoint, "Diagnostic endpoint, host/path without scheme")

	cmd.Flags().StringSliceP("countries", "c", nil, "Keep proxies located in these countries (e.g. US,DE)")
	cmd.Flags().IntSlice("status-codes", nil, "Keep proxies whose diagnostic request got one of these codes")

	cmd.Flags().StringP("format", "f", defaults.Format, "Output format: text, table, json or csv")
	cmd.Flags().String("config", "", "Configuration file path (default: .proxytaster.yaml or XDG config dir)")
	cmd.Flags().String("geoip-db", "", "GeoLite2 Country database used when the endpoint reports no country")
	cmd.Flags().String("log-format", defaults.LogFormat, "Log format: text or json")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the check.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := logging.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)

	proxies, err := readProxies(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return errNoProxies
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runTaste(ctx, cmd.OutOrStdout(), cfg, proxies, logger)
}

// buildConfig layers defaults, the settings file and the flags that were set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	if path := config.FindConfigFile(explicit); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.Merge(f)
	} else if explicit != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicit)
	}

	var errs []error
	get := func(name string, apply func() error) {
		if flags.Changed(name) {
			errs = append(errs, apply())
		}
	}

	get("out", func() (err error) { cfg.Out, err = flags.GetString("out"); return })
	get("append", func() (err error) { cfg.Append, err = flags.GetString("append"); return })
	get("workers", func() (err error) { cfg.Workers, err = flags.GetInt("workers"); return })
	get("timeout", func() (err error) { cfg.Timeout, err = flags.GetDuration("timeout"); return })
	get("protocols", func() (err error) { cfg.Protocols, err = flags.GetStringSlice("protocols"); return })
	get("precedence", func() (err error) { cfg.Precedence, err = flags.GetStringSlice("precedence"); return })
	get("endpoint", func() (err error) { cfg.Endpoint, err = flags.GetString("endpoint"); return })
	get("countries", func() (err error) { cfg.Countries, err = flags.GetStringSlice("countries"); return })
	get("status-codes", func() (err error) { cfg.StatusCodes, err = flags.GetIntSlice("status-codes"); return })
	get("format", func() (err error) { cfg.Format, err = flags.GetString("format"); return })
	get("geoip-db", func() (err error) { cfg.GeoIPDB, err = flags.GetString("geoip-db"); return })
	get("log-format", func() (err error) { cfg.LogFormat, err = flags.GetString("log-format"); return })
	get("verbose", func() (err error) { cfg.Verbose, err = flags.GetBool("verbose"); return })

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
