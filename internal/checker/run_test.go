package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
)

func httpOnly() model.Config {
	cfg := model.DefaultConfig()
	cfg.Protocols = []model.Protocol{model.ProtocolHTTP}
	return cfg
}

func TestRun_Empty(t *testing.T) {
	fake := &fakeNet{handler: okHandler(200, `{}`)}
	c, rec := newTestChecker(model.DefaultConfig(), fake)

	worked, err := c.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if worked == nil || len(worked) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %#v", worked)
	}
	if rec.count(events.RunStart) != 1 || rec.count(events.RunEnd) != 1 {
		t.Fatalf("expected one run.start and one run.end, got %d/%d",
			rec.count(events.RunStart), rec.count(events.RunEnd))
	}
	if fake.callCount() != 0 {
		t.Fatalf("expected no network calls, got %d", fake.callCount())
	}
}

func TestRun_MixedInput(t *testing.T) {
	fake := &fakeNet{handler: okHandler(200, `{"country":"US"}`)}
	c, rec := newTestChecker(httpOnly(), fake)

	proxies := []model.ProxyAddress{
		{Address: "bad:format:string"},
		{Address: "1.2.3.4:99999"},
		{Address: "5.6.7.8:8080"},
	}

	worked, err := c.Run(context.Background(), proxies)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(worked) != 1 || worked[0].Address != "5.6.7.8:8080" {
		t.Fatalf("expected only 5.6.7.8:8080 to work, got %#v", worked)
	}

	if fake.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", fake.callCount())
	}
	if got := fake.calls[0].ProxyURL; got != "http://5.6.7.8:8080" {
		t.Errorf("proxy url = %q", got)
	}
	if got := fake.requests[0].URL.Scheme; got != "http" {
		t.Errorf("target scheme = %q, want http", got)
	}

	if n := rec.count(events.CheckStart); n != 3 {
		t.Errorf("expected 3 check.start, got %d", n)
	}
	if n := rec.count(events.CheckError); n != 2 {
		t.Errorf("expected 2 not-working check.error, got %d", n)
	}

	ends := rec.named(events.RunEnd)
	if len(ends) != 1 {
		t.Fatalf("expected one run.end, got %d", len(ends))
	}
	if got := ends[0].(events.RunEndEvent).Proxies; len(got) != 1 {
		t.Errorf("run.end carries %d proxies, want 1", len(got))
	}
}

func TestRun_BoundsConcurrency(t *testing.T) {
	const workers = 3

	var inFlight, peak atomic.Int32
	fake := &fakeNet{handler: func(_ model.Protocol, _ *url.URL, req *http.Request) (*http.Response, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return response(req, 200, `{}`), nil
	}}

	cfg := httpOnly()
	cfg.Workers = workers
	c, _ := newTestChecker(cfg, fake)

	proxies := make([]model.ProxyAddress, 12)
	for i := range proxies {
		proxies[i] = model.ProxyAddress{Address: fmt.Sprintf("10.0.0.%d:8080", i+1)}
	}

	worked, err := c.Run(context.Background(), proxies)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(worked) != len(proxies) {
		t.Fatalf("expected %d results, got %d", len(proxies), len(worked))
	}
	if p := peak.Load(); p > workers {
		t.Fatalf("%d checks in flight, limit is %d", p, workers)
	}
}

func TestRun_TooManyOpenFilesAborts(t *testing.T) {
	fake := &fakeNet{handler: func(model.Protocol, *url.URL, *http.Request) (*http.Response, error) {
		return nil, errTooManyFiles()
	}}
	cfg := httpOnly()
	cfg.Workers = 1
	c, rec := newTestChecker(cfg, fake)

	proxies := []model.ProxyAddress{
		{Address: "10.0.0.1:8080"},
		{Address: "10.0.0.2:8080"},
		{Address: "10.0.0.3:8080"},
	}

	worked, err := c.Run(context.Background(), proxies)
	if !errors.Is(err, ErrTooManyOpenFiles) {
		t.Fatalf("expected ErrTooManyOpenFiles, got %v", err)
	}
	if worked == nil {
		t.Fatal("partial results must be returned")
	}
	if rec.count(events.RunEnd) != 0 {
		t.Fatal("run.end must not be emitted for an aborted run")
	}
	if rec.count(events.CheckError) != 0 {
		t.Error("fatal checks must not be reported as not-working")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	fake := &fakeNet{handler: okHandler(200, `{}`)}
	c, rec := newTestChecker(httpOnly(), fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, []model.ProxyAddress{{Address: "10.0.0.1:8080"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.callCount() != 0 {
		t.Fatalf("expected no network calls, got %d", fake.callCount())
	}
	if rec.count(events.RunEnd) != 0 {
		t.Fatal("run.end must not be emitted for a canceled run")
	}
}

func TestNew_CoercesWorkers(t *testing.T) {
	t.Parallel()

	for _, w := range []int{0, -5} {
		cfg := model.DefaultConfig()
		cfg.Workers = w
		if got := New(cfg).Config().Workers; got != 1 {
			t.Errorf("workers %d normalized to %d, want 1", w, got)
		}
	}
}
