package model

import "strings"

// FilterState is the transient dashboard filter. Empty fields are unset.
type FilterState struct {
	Search      string      `json:"search" query:"search"`
	Status      LeadStatus  `json:"status" query:"status"`
	ServiceType ServiceType `json:"service_type" query:"service_type"`
	DateStart   string      `json:"date_start" query:"date_start"`
	DateEnd     string      `json:"date_end" query:"date_end"`
}

// Matches reports whether the lead should be displayed under f.
func (f FilterState) Matches(l Lead) bool {
	return f.matchesSearch(l) &&
		f.matchesStatus(l) &&
		f.matchesService(l) &&
		f.matchesDate(l)
}

func (f FilterState) matchesSearch(l Lead) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(l.LeadName), q) ||
		strings.Contains(l.PhoneNumber, f.Search) ||
		strings.Contains(strings.ToLower(l.Email), q)
}

func (f FilterState) matchesStatus(l Lead) bool {
	return f.Status == "" || l.Status == f.Status
}

func (f FilterState) matchesService(l Lead) bool {
	return f.ServiceType == "" || l.ServiceType == f.ServiceType
}

// The range only applies when both bounds are set. YYYY-MM-DD is fixed width,
// so string order equals date order.
func (f FilterState) matchesDate(l Lead) bool {
	if f.DateStart == "" || f.DateEnd == "" {
		return true
	}
	return l.LeadDate >= f.DateStart && l.LeadDate <= f.DateEnd
}

// FilterLeads returns the matching leads in input order.
func FilterLeads(leads []Lead, f FilterState) []Lead {
	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
