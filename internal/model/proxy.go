package model

import (
	"fmt"
	"net/http"
	"time"
)

// ProxyAddress is one candidate proxy as supplied by the caller:
//
//	host:port
//	user:pass@host:port
//	socks5://host:port
//
// Protocol is empty when it has to be detected.
type ProxyAddress struct {
	Protocol Protocol
	Address  string
}

// URL returns "protocol://address", or the bare address when the protocol is unknown.
func (p ProxyAddress) URL() string {
	if p.Protocol == "" {
		return p.Address
	}
	return string(p.Protocol) + "://" + p.Address
}

// GeoInfo describes where a proxy exits to the internet, as reported by the
// diagnostic endpoint or a local GeoIP database.
type GeoInfo struct {
	IP      string `json:"ip,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
	Org     string `json:"org,omitempty"` // provider / ASN name
}

// IPResolver looks up geographical data for an IP address.
type IPResolver interface {
	Lookup(ip string) (GeoInfo, error)
}

// WorkedProxy is a proxy that completed a full HTTP exchange with the
// diagnostic endpoint. It is never modified by the checker after it has been
// returned.
type WorkedProxy struct {
	Protocol Protocol `json:"protocol"`
	Address  string   `json:"address"`
	URL      string   `json:"url"`

	// Response is the response of the diagnostic request. Its body has
	// already been read and closed; the decoded content is in Body.
	Response *http.Response `json:"-"`
	Status   int            `json:"status"`

	// Body is the decoded JSON document, or the raw text when the body was
	// not valid JSON.
	Body any `json:"body,omitempty"`

	// Country is the country code reported by the endpoint. Empty means absent.
	Country string  `json:"country,omitempty"`
	Geo     GeoInfo `json:"geo"`

	Latency time.Duration `json:"latency_ns"`

	// Filled by caller side enrichment, never by the checker.
	RiskScore float64 `json:"risk_score,omitempty"`
	GeoSource string  `json:"geo_source,omitempty"`
}

// HasCountry reports whether a country code is known for the proxy.
func (w *WorkedProxy) HasCountry() bool {
	return w.Country != ""
}

// String renders the proxy the way it is written to result files:
// "<status> <url> <country>".
func (w *WorkedProxy) String() string {
	country := w.Country
	if country == "" {
		country = "-"
	}
	return fmt.Sprintf("%d %s %s", w.Status, w.URL, country)
}

// RunStats aggregates summary analytics for an entire run.
type RunStats struct {
	TotalProxies          int            `json:"total_proxies"`
	UniqueProxies         int            `json:"unique_proxies"`
	WorkedProxies         int            `json:"worked_proxies"`
	ByProtocol            map[string]int `json:"by_protocol"`
	ByCountry             map[string]int `json:"by_country"`
	AvgLatencyMs          float64        `json:"avg_latency_ms"`
	AvgRiskScore          float64        `json:"avg_risk_score"`
	TotalProcessingTimeMs int64          `json:"total_processing_time_ms"`
	SuccessRatePct        float64        `json:"success_rate_pct"`
}
