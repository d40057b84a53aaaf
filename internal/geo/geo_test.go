package geo

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/August26/proxytaster/internal/model"
)

func TestEstimateRiskScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ip   string
		org  string
		want float64
	}{
		{"no ip", "", "", 80},
		{"garbage", "not-an-ip", "", 90},
		{"private", "192.168.1.10", "", 95},
		{"loopback", "127.0.0.1", "", 95},
		{"hosting", "203.0.113.7", "AS24940 Hetzner Online GmbH", 70},
		{"cloud", "203.0.113.7", "AS16509 Amazon.com, Inc.", 70},
		{"residential", "203.0.113.7", "AS3320 Deutsche Telekom AG", 20},
		{"ipv6 residential", "2001:db8::1", "AS7922 Comcast Cable", 20},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := EstimateRiskScore(tc.ip, tc.org); got != tc.want {
				t.Errorf("EstimateRiskScore(%q, %q) = %v, want %v", tc.ip, tc.org, got, tc.want)
			}
		})
	}
}

type mapResolver map[string]string

func (m mapResolver) Lookup(ip string) (model.GeoInfo, error) {
	c, ok := m[ip]
	if !ok {
		return model.GeoInfo{}, ErrNotFound
	}
	return model.GeoInfo{IP: ip, Country: c}, nil
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	fromEndpoint := &model.WorkedProxy{Country: "US", Geo: model.GeoInfo{IP: "203.0.113.1", Country: "US"}}
	fromDB := &model.WorkedProxy{Geo: model.GeoInfo{IP: "203.0.113.2"}}
	unknown := &model.WorkedProxy{Geo: model.GeoInfo{IP: "203.0.113.3"}}
	noIP := &model.WorkedProxy{Body: "plain text"}

	Enrich(mapResolver{"203.0.113.1": "FR", "203.0.113.2": "NL"},
		[]*model.WorkedProxy{fromEndpoint, fromDB, unknown, noIP})

	if fromEndpoint.Country != "US" || fromEndpoint.GeoSource != SourceEndpoint {
		t.Errorf("endpoint country must win: %+v", fromEndpoint)
	}
	if fromDB.Country != "NL" || fromDB.Geo.Country != "NL" || fromDB.GeoSource != SourceGeoIP {
		t.Errorf("expected geoip fallback: %+v", fromDB)
	}
	if unknown.HasCountry() || unknown.GeoSource != "" {
		t.Errorf("unknown address must stay without country: %+v", unknown)
	}
	if noIP.HasCountry() {
		t.Errorf("no exit ip, no lookup: %+v", noIP)
	}
	if noIP.RiskScore != 80 || fromDB.RiskScore != 20 {
		t.Errorf("risk scores not set: %v, %v", noIP.RiskScore, fromDB.RiskScore)
	}
}

func TestEnrich_NilResolver(t *testing.T) {
	t.Parallel()

	w := &model.WorkedProxy{Geo: model.GeoInfo{IP: "203.0.113.2", Org: "AS1 Some Hosting"}}
	Enrich(nil, []*model.WorkedProxy{w})

	if w.HasCountry() {
		t.Errorf("unexpected country %q", w.Country)
	}
	if w.RiskScore != 70 {
		t.Errorf("RiskScore = %v, want 70", w.RiskScore)
	}
}

func TestOpen_MissingDatabase(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb"))
	if err == nil {
		t.Fatal("expected an error for a missing database")
	}
}

func TestResolver_InvalidIP(t *testing.T) {
	t.Parallel()

	r := &Resolver{}
	_, err := r.Lookup("nope")
	if !errors.Is(err, ErrInvalidIP) {
		t.Fatalf("expected ErrInvalidIP, got %v", err)
	}
}
