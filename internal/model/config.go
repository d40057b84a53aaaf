package model

import "time"

const (
	DefaultWorkers  = 200
	DefaultTimeout  = 10 * time.Second
	DefaultEndpoint = "ipinfo.io/json"
)

// Config is the configuration of one checker run. It is held by a single
// Checker and never shared through package state.
type Config struct {
	// Protocols is the candidate set; only these protocols are ever probed.
	Protocols []Protocol

	// Precedence is the order candidates are tried in when the protocol of
	// a proxy is unknown.
	Precedence []Protocol

	// Workers bounds the number of proxies checked at the same time.
	Workers int

	// Timeout applies to each diagnostic request, body included.
	Timeout time.Duration

	// Endpoint is the diagnostic endpoint without scheme, e.g. "ipinfo.io/json".
	// The scheme is picked per protocol.
	Endpoint string
}

// DefaultConfig returns a Config that probes every protocol.
func DefaultConfig() Config {
	return Config{
		Protocols:  append([]Protocol(nil), AllProtocols...),
		Precedence: append([]Protocol(nil), DefaultPrecedence...),
		Workers:    DefaultWorkers,
		Timeout:    DefaultTimeout,
		Endpoint:   DefaultEndpoint,
	}
}

// Normalize fills zero values with defaults and coerces Workers to at least 1.
// An explicitly empty (non-nil) Protocols slice is kept: nothing gets probed.
func (c Config) Normalize() Config {
	if c.Protocols == nil {
		c.Protocols = append([]Protocol(nil), AllProtocols...)
	}
	if len(c.Precedence) == 0 {
		c.Precedence = append([]Protocol(nil), DefaultPrecedence...)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	return c
}

// Candidates returns the candidate protocols in precedence order. Candidates
// missing from Precedence are appended in their configured order.
func (c Config) Candidates() []Protocol {
	out := make([]Protocol, 0, len(c.Protocols))
	for _, p := range c.Precedence {
		if ContainsProtocol(c.Protocols, p) && !ContainsProtocol(out, p) {
			out = append(out, p)
		}
	}
	for _, p := range c.Protocols {
		if !ContainsProtocol(out, p) {
			out = append(out, p)
		}
	}
	return out
}
