package checker

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// fakeCall is one transport built by fakeNet.
type fakeCall struct {
	Protocol model.Protocol
	ProxyURL string
}

// fakeNet is a TransportFactory whose round trips are answered by handler.
type fakeNet struct {
	mu       sync.Mutex
	calls    []fakeCall
	requests []*http.Request
	handler  func(p model.Protocol, proxyURL *url.URL, req *http.Request) (*http.Response, error)
}

func (f *fakeNet) factory(p model.Protocol, proxyURL *url.URL, _ time.Duration) (http.RoundTripper, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{Protocol: p, ProxyURL: proxyURL.String()})
	f.mu.Unlock()

	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()
		return f.handler(p, proxyURL, req)
	}), nil
}

func (f *fakeNet) protocols() []model.Protocol {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Protocol, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Protocol)
	}
	return out
}

func (f *fakeNet) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func response(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func errTooManyFiles() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("socket", syscall.EMFILE)}
}

// recorder collects every event emitted on a bus.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecorder(bus *events.Bus) *recorder {
	r := &recorder{}
	for _, name := range []events.Name{
		events.RunStart, events.RunEnd,
		events.CheckStart, events.CheckEnd, events.CheckSuccess, events.CheckError,
		events.ExceptStart, events.ExceptEnd, events.ExceptSuccess, events.ExceptError, events.ExceptErrorSkipped,
		events.Error,
	} {
		bus.On(name, r.record)
	}
	return r
}

func (r *recorder) record(e events.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) named(name events.Name) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []events.Event
	for _, e := range r.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) count(name events.Name) int {
	return len(r.named(name))
}

// newTestChecker wires a Checker to a fake network and an event recorder.
func newTestChecker(cfg model.Config, fake *fakeNet) (*Checker, *recorder) {
	bus := events.NewBus()
	rec := newRecorder(bus)
	c := New(cfg,
		WithBus(bus),
		WithTransportFactory(fake.factory),
		WithUserAgent(func() string { return "test-agent/1.0" }),
	)
	return c, rec
}
