package analytics

import (
	"time"

	"github.com/August26/proxytaster/internal/model"
)

// Compute summarises a run: the proxies that were submitted, the ones that
// worked and the wall time of the run.
func Compute(proxies []model.ProxyAddress, worked []*model.WorkedProxy, duration time.Duration) model.RunStats {
	stats := model.RunStats{
		TotalProxies:          len(proxies),
		WorkedProxies:         len(worked),
		ByProtocol:            make(map[string]int),
		ByCountry:             make(map[string]int),
		TotalProcessingTimeMs: duration.Milliseconds(),
	}

	seen := make(map[string]struct{}, len(proxies))
	for _, p := range proxies {
		seen[p.URL()] = struct{}{}
	}
	stats.UniqueProxies = len(seen)

	var latencySum time.Duration
	var latencyCount int64

	var riskSum float64
	var riskCount int64

	for _, w := range worked {
		stats.ByProtocol[string(w.Protocol)]++

		country := w.Country
		if country == "" {
			country = "unknown"
		}
		stats.ByCountry[country]++

		if w.Latency > 0 {
			latencySum += w.Latency
			latencyCount++
		}
		if w.RiskScore > 0 {
			riskSum += w.RiskScore
			riskCount++
		}
	}

	if latencyCount > 0 {
		stats.AvgLatencyMs = float64(latencySum.Milliseconds()) / float64(latencyCount)
	}
	if riskCount > 0 {
		stats.AvgRiskScore = riskSum / float64(riskCount)
	}
	if stats.TotalProxies > 0 {
		stats.SuccessRatePct = float64(stats.WorkedProxies) / float64(stats.TotalProxies) * 100.0
	}

	return stats
}
