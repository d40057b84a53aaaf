// Package checker validates proxies. It probes each proxy against a
// diagnostic endpoint, detects which protocol the proxy speaks and runs many
// checks concurrently behind a worker gate.
package checker

import (
	"golang.org/x/sync/semaphore"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
)

// Checker runs proxy checks with one configuration. All state of a run lives
// here; a Checker may be reused for several runs.
type Checker struct {
	cfg        model.Config
	candidates []model.Protocol

	bus       *events.Bus
	transport TransportFactory
	userAgent func() string

	// gate bounds the number of checks in flight.
	gate *semaphore.Weighted
}

// Option configures a Checker.
type Option func(*Checker)

// WithBus makes the checker emit its events on bus.
func WithBus(bus *events.Bus) Option {
	return func(c *Checker) {
		c.bus = bus
	}
}

// WithTransportFactory replaces NewTransport, mostly for tests.
func WithTransportFactory(f TransportFactory) Option {
	return func(c *Checker) {
		c.transport = f
	}
}

// WithUserAgent replaces the random User-Agent picker.
func WithUserAgent(f func() string) Option {
	return func(c *Checker) {
		c.userAgent = f
	}
}

// New creates a Checker. cfg is normalized first, so Workers below 1
// becomes 1.
func New(cfg model.Config, opts ...Option) *Checker {
	cfg = cfg.Normalize()

	c := &Checker{
		cfg:        cfg,
		candidates: cfg.Candidates(),
		transport:  NewTransport,
		userAgent:  RandomUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = events.NewBus()
	}

	c.gate = semaphore.NewWeighted(int64(cfg.Workers))
	return c
}

// Config returns the normalized configuration.
func (c *Checker) Config() model.Config {
	return c.cfg
}

// Bus returns the bus events are emitted on.
func (c *Checker) Bus() *events.Bus {
	return c.bus
}
