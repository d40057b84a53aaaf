package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProtocol is returned by ParseProtocol for anything outside the
// supported protocol set.
var ErrUnknownProtocol = errors.New("unknown proxy protocol")

// Protocol is the proxy protocol a proxy speaks. The zero value means the
// protocol is not known yet and has to be detected.
type Protocol string

const (
	ProtocolHTTP   Protocol = "http"
	ProtocolHTTPS  Protocol = "https"
	ProtocolSOCKS4 Protocol = "socks4"
	ProtocolSOCKS5 Protocol = "socks5"
)

// AllProtocols lists every supported protocol.
var AllProtocols = []Protocol{ProtocolHTTP, ProtocolHTTPS, ProtocolSOCKS4, ProtocolSOCKS5}

// DefaultPrecedence is the order in which protocols are tried when a proxy's
// protocol is unknown. The first protocol that works wins.
var DefaultPrecedence = []Protocol{ProtocolSOCKS5, ProtocolSOCKS4, ProtocolHTTPS, ProtocolHTTP}

// ParseProtocol converts a user supplied name ("SOCKS5", "http", ...) to a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
	return p, nil
}

// ParseProtocols parses a list of names, keeping the first occurrence of each.
func ParseProtocols(names []string) ([]Protocol, error) {
	out := make([]Protocol, 0, len(names))
	for _, n := range names {
		p, err := ParseProtocol(n)
		if err != nil {
			return nil, err
		}
		if !ContainsProtocol(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Valid reports whether p is one of the supported protocols.
func (p Protocol) Valid() bool {
	switch p {
	case ProtocolHTTP, ProtocolHTTPS, ProtocolSOCKS4, ProtocolSOCKS5:
		return true
	}
	return false
}

// IsSOCKS reports whether p is SOCKS4 or SOCKS5.
func (p Protocol) IsSOCKS() bool {
	return p == ProtocolSOCKS4 || p == ProtocolSOCKS5
}

// TargetScheme is the scheme used for the request sent through a proxy of
// this protocol. Only a plain HTTP proxy forwards a plaintext request; every
// other protocol tunnels TCP, so the request goes out over TLS.
func (p Protocol) TargetScheme() string {
	if p == ProtocolHTTP {
		return "http"
	}
	return "https"
}

// String implements fmt.Stringer.
func (p Protocol) String() string {
	return string(p)
}

// ContainsProtocol reports whether list contains p.
func ContainsProtocol(list []Protocol, p Protocol) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

// SplitScheme splits a "proto://rest" address. ok is false when the address
// has no scheme prefix or the prefix is not a supported protocol.
func SplitScheme(address string) (p Protocol, rest string, ok bool) {
	scheme, rest, found := strings.Cut(address, "://")
	if !found {
		return "", address, false
	}
	p = Protocol(strings.ToLower(scheme))
	if !p.Valid() {
		return "", address, false
	}
	return p, rest, true
}
