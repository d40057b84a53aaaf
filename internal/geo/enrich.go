package geo

import (
	"github.com/August26/proxytaster/internal/model"
)

// Values of WorkedProxy.GeoSource.
const (
	SourceEndpoint = "endpoint"
	SourceGeoIP    = "geoip"
)

// Enrich fills the fields of worked that the checker leaves to the caller.
//
// A proxy whose diagnostic body had no country is looked up in resolver by
// its exit IP; resolver may be nil. RiskScore is always set. Lookup failures
// are not errors: the country simply stays absent.
func Enrich(resolver model.IPResolver, worked []*model.WorkedProxy) {
	for _, w := range worked {
		switch {
		case w.HasCountry():
			w.GeoSource = SourceEndpoint
		case resolver != nil && w.Geo.IP != "":
			if info, err := resolver.Lookup(w.Geo.IP); err == nil && info.Country != "" {
				w.Country = info.Country
				w.Geo.Country = info.Country
				w.GeoSource = SourceGeoIP
			}
		}

		w.RiskScore = EstimateRiskScore(w.Geo.IP, w.Geo.Org)
	}
}
