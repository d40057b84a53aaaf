package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Failure tags why a probe did not produce a response. Every error raised by
// the HTTP client or the proxy dialers is mapped to one of these, so callers
// never inspect transport error types themselves.
type Failure int

const (
	FailureNone Failure = iota
	FailureRefused
	FailureReset
	FailureDisconnected
	FailureTimeout
	FailureCanceled
	FailureProxyHandshake
	FailureProxyAuth
	FailureTLS
	FailureInvalidURL
	FailureMalformedReply

	// FailureConnSevered: the proxy dialer handed back neither a
	// connection nor an error, i.e. the proxy dropped the connection before
	// the tunnel was up. Recoverable, not skippable.
	FailureConnSevered

	// FailureTooManyOpenFiles aborts the run.
	FailureTooManyOpenFiles

	// FailureUnknown is anything that did not come out of the transport.
	// It is never swallowed.
	FailureUnknown
)

var failureNames = map[Failure]string{
	FailureNone:             "none",
	FailureRefused:          "connection refused",
	FailureReset:            "connection reset",
	FailureDisconnected:     "disconnected",
	FailureTimeout:          "timeout",
	FailureCanceled:         "canceled",
	FailureProxyHandshake:   "proxy handshake failed",
	FailureProxyAuth:        "proxy authentication failed",
	FailureTLS:              "tls failure",
	FailureInvalidURL:       "invalid url",
	FailureMalformedReply:   "malformed reply",
	FailureConnSevered:      "connection severed",
	FailureTooManyOpenFiles: "too many open files",
	FailureUnknown:          "unknown",
}

func (f Failure) String() string {
	if s, ok := failureNames[f]; ok {
		return s
	}
	return "unknown"
}

// Skippable reports whether f only means "this proxy does not work with
// this protocol".
func (f Failure) Skippable() bool {
	switch f {
	case FailureRefused, FailureReset, FailureDisconnected, FailureTimeout, FailureCanceled,
		FailureProxyHandshake, FailureProxyAuth, FailureTLS, FailureInvalidURL, FailureMalformedReply:
		return true
	}
	return false
}

// nilConnMessage is how net/http reports a dial hook returning (nil, nil).
const nilConnMessage = "DialContext hook returned (nil, nil)"

// Classify maps an error from building, sending or reading a probe request
// to a Failure.
func Classify(err error) Failure {
	if err == nil {
		return FailureNone
	}

	msg := strings.ToLower(err.Error())

	// Resource exhaustion arrives through the same channel as ordinary dial
	// errors and must be picked out first.
	if errors.Is(err, syscall.EMFILE) || errors.Is(err, syscall.ENFILE) ||
		strings.Contains(msg, "too many open files") {
		return FailureTooManyOpenFiles
	}

	if errors.Is(err, errNoConn) || strings.Contains(msg, strings.ToLower(nilConnMessage)) {
		return FailureConnSevered
	}

	var urlErr *url.Error
	fromTransport := errors.As(err, &urlErr)

	var (
		netErr     net.Error
		dnsErr     *net.DNSError
		hostErr    url.InvalidHostError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
		verifyErr  *tls.CertificateVerificationError
		unknownCA  x509.UnknownAuthorityError
		invalidCrt x509.CertificateInvalidError
		hostnameCr x509.HostnameError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.As(err, &hostErr), errors.Is(err, errInvalidProxyURL),
		fromTransport && urlErr.Op == "parse":
		return FailureInvalidURL
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH), errors.As(err, &dnsErr):
		return FailureRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNABORTED):
		return FailureReset
	case errors.As(err, &recordErr), errors.As(err, &alertErr), errors.As(err, &verifyErr),
		errors.As(err, &unknownCA), errors.As(err, &invalidCrt), errors.As(err, &hostnameCr):
		return FailureTLS
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return FailureDisconnected
	}

	// Proxy libraries mostly report negotiation problems as plain strings.
	switch {
	case containsAny(msg, "no acceptable authentication", "authentication failed",
		"proxy authentication required", "username/password"):
		return FailureProxyAuth
	case containsAny(msg, "socks", "proxyconnect", "proxy:", "unexpected protocol version"):
		return FailureProxyHandshake
	case containsAny(msg, "tls:", "x509:"):
		return FailureTLS
	case containsAny(msg, "connection refused", "no such host", "unreachable"):
		return FailureRefused
	case containsAny(msg, "connection reset", "broken pipe"):
		return FailureReset
	case containsAny(msg, "eof", "use of closed network connection", "server closed"):
		return FailureDisconnected
	}

	// A body the proxy sent but that cannot be read is the proxy's fault.
	if fromTransport || errors.Is(err, errBodyRead) {
		return FailureMalformedReply
	}
	return FailureUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
