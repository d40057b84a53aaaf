// Package geo enriches worked proxies with data the diagnostic endpoint did
// not provide: a country from a local GeoIP database and a risk score.
package geo

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/August26/proxytaster/internal/model"
)

var (
	// ErrInvalidIP is returned by Lookup for strings that are not IP addresses.
	ErrInvalidIP = errors.New("invalid ip address")

	// ErrNotFound is returned by Lookup when the database has no country for the address.
	ErrNotFound = errors.New("ip address not found in database")
)

// Resolver looks countries up in a MaxMind GeoIP2 / GeoLite2 database
// (Country or City edition).
type Resolver struct {
	reader *geoip2.Reader
}

var _ model.IPResolver = (*Resolver)(nil)

// Open opens the database at path.
func Open(path string) (*Resolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &Resolver{reader: reader}, nil
}

// Lookup returns the country of ip. Only IP and Country are filled.
func (r *Resolver) Lookup(ip string) (model.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return model.GeoInfo{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	record, err := r.reader.Country(parsed)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("lookup %s: %w", ip, err)
	}
	if record.Country.IsoCode == "" {
		return model.GeoInfo{}, fmt.Errorf("%w: %s", ErrNotFound, ip)
	}

	return model.GeoInfo{
		IP:      ip,
		Country: record.Country.IsoCode,
	}, nil
}

// Close releases the database.
func (r *Resolver) Close() error {
	return r.reader.Close()
}
