package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/August26/proxytaster/internal/logging"
	"github.com/August26/proxytaster/internal/model"
	"github.com/August26/proxytaster/internal/output"
)

// AppName is the application name used for XDG directory paths.
const AppName = "proxytaster"

// Config holds every setting of a proxytaster run. Values come from
// NewConfig, then the settings file (see File), then command line flags.
type Config struct {
	// Protocols is the candidate set. Empty means all four.
	Protocols []string

	// Precedence is the order in which candidates are tried when the
	// protocol of a proxy is unknown. Empty means socks5, socks4, https, http.
	Precedence []string

	// Workers bounds the number of proxies checked at once.
	Workers int

	// Timeout applies to each diagnostic request.
	Timeout time.Duration

	// Endpoint is the diagnostic endpoint, host and path without scheme.
	Endpoint string

	// Countries and StatusCodes filter the printed and saved proxies.
	Countries   []string
	StatusCodes []int

	Format    string
	Out       string
	Append    string
	GeoIPDB   string
	LogFormat string
	Verbose   bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Workers:   model.DefaultWorkers,
		Timeout:   model.DefaultTimeout,
		Endpoint:  model.DefaultEndpoint,
		Format:    string(output.FormatText),
		LogFormat: logging.FormatText,
	}
}

// XDGConfigDir returns the XDG config directory for proxytaster.
// On Linux: ~/.config/proxytaster
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Merge copies every setting present in f over c.
func (c *Config) Merge(f *File) {
	if f == nil {
		return
	}
	if f.Protocols != nil {
		c.Protocols = f.Protocols
	}
	if f.Precedence != nil {
		c.Precedence = f.Precedence
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Endpoint != nil {
		c.Endpoint = *f.Endpoint
	}
	if f.Countries != nil {
		c.Countries = f.Countries
	}
	if f.StatusCodes != nil {
		c.StatusCodes = f.StatusCodes
	}
	if f.Format != nil {
		c.Format = *f.Format
	}
	if f.Out != nil {
		c.Out = *f.Out
	}
	if f.Append != nil {
		c.Append = *f.Append
	}
	if f.GeoIPDB != nil {
		c.GeoIPDB = *f.GeoIPDB
	}
	if f.LogFormat != nil {
		c.LogFormat = *f.LogFormat
	}
	if f.Verbose != nil {
		c.Verbose = *f.Verbose
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Protocols != nil && len(c.Protocols) == 0 {
		return ErrNoProtocol
	}
	for _, list := range [][]string{c.Protocols, c.Precedence} {
		if _, err := model.ParseProtocols(list); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProtocol, err)
		}
	}

	if c.Endpoint == "" || strings.Contains(c.Endpoint, "://") {
		return ErrInvalidEndpoint
	}

	for _, code := range c.StatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("%w: %d", ErrInvalidStatusCode, code)
		}
	}

	if _, err := output.ParseFormat(c.Format); err != nil {
		return ErrInvalidFormat
	}

	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatJSON, logging.FormatText:
	default:
		return ErrInvalidLogFormat
	}

	if c.Out != "" && c.Out == c.Append {
		return ErrConflictingOutputs
	}

	return nil
}

// Checker returns the configuration of a checker run.
func (c *Config) Checker() (model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Workers = c.Workers
	cfg.Timeout = c.Timeout
	cfg.Endpoint = c.Endpoint

	if len(c.Protocols) > 0 {
		ps, err := model.ParseProtocols(c.Protocols)
		if err != nil {
			return model.Config{}, fmt.Errorf("%w: %v", ErrInvalidProtocol, err)
		}
		cfg.Protocols = ps
	}
	if len(c.Precedence) > 0 {
		ps, err := model.ParseProtocols(c.Precedence)
		if err != nil {
			return model.Config{}, fmt.Errorf("%w: %v", ErrInvalidProtocol, err)
		}
		cfg.Precedence = ps
	}

	return cfg.Normalize(), nil
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() output.Format {
	f, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatText
	}
	return f
}
