package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
	"h12.io/socks"

	"github.com/August26/proxytaster/internal/model"
)

// errNoConn is returned by a wrapped dial function that produced neither a
// connection nor an error.
var errNoConn = errors.New("proxy dialer returned no connection")

// TransportFactory builds the round tripper used for one probe. proxyURL is
// "protocol://[user:pass@]host:port".
type TransportFactory func(protocol model.Protocol, proxyURL *url.URL, timeout time.Duration) (http.RoundTripper, error)

// NewTransport is the default TransportFactory.
//
// SOCKS4, SOCKS5 and HTTPS tunnel TCP through the proxy. HTTP proxies are
// configured on the request path instead (Transport.Proxy with a plain http
// target), which makes the proxy receive an absolute-URI GET. HTTPS uses the
// same Transport.Proxy field, but since its target is https the transport
// always opens a CONNECT tunnel first.
func NewTransport(protocol model.Protocol, proxyURL *url.URL, timeout time.Duration) (http.RoundTripper, error) {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		// Every probe owns its transport; nothing is reused across probes.
		DisableKeepAlives: true,
	}

	switch protocol {
	case model.ProtocolHTTP, model.ProtocolHTTPS:
		u := *proxyURL
		u.Scheme = "http"
		transport.Proxy = http.ProxyURL(&u)

	case model.ProtocolSOCKS5:
		var auth *proxy.Auth
		if proxyURL.User != nil {
			password, _ := proxyURL.User.Password()
			auth = &proxy.Auth{
				User:     proxyURL.User.Username(),
				Password: password,
			}
		}

		d, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, dialer)
		if err != nil {
			return nil, fmt.Errorf("%w: socks5 dialer: %v", errInvalidProxyURL, err)
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("%w: socks5 dialer does not support contexts", errInvalidProxyURL)
		}
		transport.DialContext = cd.DialContext

	case model.ProtocolSOCKS4:
		// x/net/proxy has no SOCKS4 support.
		transport.DialContext = contextDial(socks.Dial(socks4URI(proxyURL, timeout)))

	default:
		return nil, fmt.Errorf("%w: %w: %q", errInvalidProxyURL, model.ErrUnknownProtocol, protocol)
	}

	return transport, nil
}

// socks4URI renders the URI understood by h12.io/socks. SOCKS4 only carries
// a user id, so a password is dropped.
func socks4URI(proxyURL *url.URL, timeout time.Duration) string {
	u := url.URL{
		Scheme:   "socks4",
		Host:     proxyURL.Host,
		RawQuery: url.Values{"timeout": []string{timeout.String()}}.Encode(),
	}
	if proxyURL.User != nil {
		u.User = url.User(proxyURL.User.Username())
	}
	return u.String()
}

// contextDial adapts a blocking dial function to http.Transport.DialContext.
// If ctx ends first the dial keeps running in the background and its
// connection is closed as soon as it arrives.
func contextDial(dial func(network, addr string) (net.Conn, error)) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type result struct {
			conn net.Conn
			err  error
		}

		done := make(chan result, 1)
		go func() {
			c, err := dial(network, addr)
			done <- result{conn: c, err: err}
		}()

		select {
		case <-ctx.Done():
			go func() {
				if r := <-done; r.conn != nil {
					_ = r.conn.Close()
				}
			}()
			return nil, ctx.Err()
		case r := <-done:
			if r.conn == nil && r.err == nil {
				return nil, errNoConn
			}
			return r.conn, r.err
		}
	}
}
