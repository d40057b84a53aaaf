package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
	"github.com/August26/proxytaster/internal/parser"
)

// Probe sends one diagnostic request through address using protocol.
//
// It returns (nil, nil) when the proxy does not work with this protocol,
// whatever the reason; the reason is reported on the bus. A non-nil error
// means the run has to stop: either a *TooManyOpenFilesError or an error
// that did not come from the network.
func (c *Checker) Probe(ctx context.Context, protocol model.Protocol, address string) (*model.WorkedProxy, error) {
	c.bus.Emit(events.StartEvent{
		Name:     events.ExceptStart,
		Protocol: protocol,
		Address:  address,
	})

	worked, err := c.probe(ctx, protocol, address)

	c.bus.Emit(events.EndEvent{
		Name:   events.ExceptEnd,
		Result: worked,
	})
	return worked, err
}

func (c *Checker) probe(ctx context.Context, protocol model.Protocol, address string) (*model.WorkedProxy, error) {
	if _, err := parser.ParsePort(address); err != nil {
		c.emitError(events.ExceptError, protocol, address, events.LevelRecoverable, err.Error(), err)
		return nil, nil
	}

	proxyURL, err := url.Parse(string(protocol) + "://" + address)
	if err != nil {
		return c.failed(protocol, address, fmt.Errorf("%w: %v", errInvalidProxyURL, err))
	}

	rt, err := c.transport(protocol, proxyURL, c.cfg.Timeout)
	if err != nil {
		return c.failed(protocol, address, err)
	}

	target := protocol.TargetScheme() + "://" + c.cfg.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		// The endpoint is ours, not the proxy's; nothing to skip here.
		err = fmt.Errorf("build diagnostic request %q: %w", target, err)
		c.emitError(events.ExceptError, protocol, address, events.LevelFatal, err.Error(), err)
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Proxy-Connection", "keep-alive")

	client := &http.Client{
		Transport: rt,
		Timeout:   c.cfg.Timeout,
	}
	defer client.CloseIdleConnections()

	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return c.failed(protocol, address, err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return c.failed(protocol, address, fmt.Errorf("%w: %w", errBodyRead, err))
	}

	body, geo := decodeBody(raw)
	worked := &model.WorkedProxy{
		Protocol: protocol,
		Address:  address,
		URL:      string(protocol) + "://" + address,
		Response: resp,
		Status:   resp.StatusCode,
		Body:     body,
		Country:  geo.Country,
		Geo:      geo,
		Latency:  time.Since(start),
	}

	c.bus.Emit(events.SuccessEvent{
		Name:     events.ExceptSuccess,
		Protocol: protocol,
		Proxy:    worked,
	})
	return worked, nil
}

// failed reports err according to its classification and decides whether
// the probe just did not work or the run has to stop.
func (c *Checker) failed(protocol model.Protocol, address string, err error) (*model.WorkedProxy, error) {
	f := Classify(err)

	switch {
	case f == FailureTooManyOpenFiles:
		fatal := &TooManyOpenFilesError{
			Protocol: protocol,
			Address:  address,
			Workers:  c.cfg.Workers,
			Err:      err,
		}
		c.emitError(events.ExceptError, protocol, address, events.LevelFatal, fatal.Error(), fatal)
		return nil, fatal

	case f == FailureConnSevered:
		c.emitError(events.ExceptError, protocol, address, events.LevelRecoverable, err.Error(), err)
		return nil, nil

	case f.Skippable():
		c.emitError(events.ExceptErrorSkipped, protocol, address, events.LevelSkipped, f.String()+": "+err.Error(), err)
		return nil, nil
	}

	err = fmt.Errorf("probe %s://%s: %w", protocol, address, err)
	c.emitError(events.ExceptError, protocol, address, events.LevelFatal, err.Error(), err)
	return nil, err
}

// emitError emits an ErrorEvent under name and under the catch-all "error".
func (c *Checker) emitError(name events.Name, protocol model.Protocol, address string, level events.Level, msg string, cause error) {
	ev := events.ErrorEvent{
		Name:     events.Error,
		Protocol: protocol,
		Address:  address,
		Level:    level,
		Message:  msg,
		Cause:    cause,
	}
	c.bus.Emit(ev)

	ev.Name = name
	c.bus.Emit(ev)
}

// decodeBody decodes a diagnostic response. A body that is not JSON is
// returned as text with empty GeoInfo.
func decodeBody(raw []byte) (any, model.GeoInfo) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return string(raw), model.GeoInfo{}
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return doc, model.GeoInfo{}
	}
	return doc, model.GeoInfo{
		IP:      stringField(m, "ip"),
		City:    stringField(m, "city"),
		Region:  stringField(m, "region"),
		Country: stringField(m, "country"),
		Org:     stringField(m, "org"),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
