package geo

import (
	"net"
	"strings"
)

// hostingKeywords mark organisations that sell datacenter addresses.
var hostingKeywords = []string{
	"cloud", "hosting", "data", "server", "colo",
	"digitalocean", "aws", "amazon", "google", "azure",
	"hetzner", "ovh", "linode", "vultr", "leaseweb",
}

// EstimateRiskScore returns a heuristic score in 0..100 for the exit address
// of a proxy. Higher means more likely to be flagged: datacenter ranges,
// unroutable addresses or no address at all.
//
// org is the organisation string of the diagnostic endpoint
// ("AS24940 Hetzner Online GmbH").
func EstimateRiskScore(ip, org string) float64 {
	if ip == "" {
		return 80.0
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return 90.0
	}

	// Not a real exit address.
	if isPrivateIP(parsed) {
		return 95.0
	}

	lowerOrg := strings.ToLower(org)
	for _, kw := range hostingKeywords {
		if strings.Contains(lowerOrg, kw) {
			return 70.0
		}
	}

	// residential / mobile
	return 20.0
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
