package output

import (
	"slices"
	"strings"

	"github.com/August26/proxytaster/internal/model"
)

// Filter decides whether a worked proxy is kept in the output.
type Filter func(*model.WorkedProxy) bool

// CountryFilter keeps proxies located in one of countries. An empty list
// keeps everything; otherwise a proxy with no known country is dropped.
// Codes are compared case-insensitively.
func CountryFilter(countries []string) Filter {
	if len(countries) == 0 {
		return func(*model.WorkedProxy) bool { return true }
	}

	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}

	return func(w *model.WorkedProxy) bool {
		if !w.HasCountry() {
			return false
		}
		_, ok := allowed[strings.ToUpper(w.Country)]
		return ok
	}
}

// StatusFilter keeps proxies whose diagnostic response had one of codes.
// An empty list keeps everything.
func StatusFilter(codes []int) Filter {
	return func(w *model.WorkedProxy) bool {
		return len(codes) == 0 || slices.Contains(codes, w.Status)
	}
}

// Apply returns the proxies accepted by every filter, in input order.
func Apply(worked []*model.WorkedProxy, filters ...Filter) []*model.WorkedProxy {
	out := make([]*model.WorkedProxy, 0, len(worked))
next:
	for _, w := range worked {
		for _, f := range filters {
			if !f(w) {
				continue next
			}
		}
		out = append(out, w)
	}
	return out
}
