package model

import "math"

type StatusCount struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
}

type ServiceCount struct {
	ServiceType ServiceType `json:"service_type"`
	Count       int         `json:"count"`
}

// PipelineStats summarises the pipeline for the dashboard cards and charts.
type PipelineStats struct {
	Total            int            `json:"total"`
	ActiveLeads      int            `json:"active_leads"`
	ClosedWon        int            `json:"closed_won"`
	ClosedLost       int            `json:"closed_lost"`
	ConversionRate   int            `json:"conversion_rate"`
	StatusBreakdown  []StatusCount  `json:"status_breakdown"`
	ServiceBreakdown []ServiceCount `json:"service_breakdown"`
}

// Aggregate computes the pipeline snapshot for leads without modifying them.
func Aggregate(leads []Lead) PipelineStats {
	byStatus := make(map[LeadStatus]int, len(AllLeadStatuses))
	byService := make(map[ServiceType]int, len(AllServiceTypes))

	stats := PipelineStats{Total: len(leads)}
	for _, l := range leads {
		byStatus[l.Status]++
		byService[l.ServiceType]++
		if l.Status.IsActive() {
			stats.ActiveLeads++
		}
	}

	stats.ClosedWon = byStatus[LeadStatusClosedWon]
	stats.ClosedLost = byStatus[LeadStatusClosedLost]
	stats.ConversionRate = ConversionRate(stats.ClosedWon, stats.ClosedLost)

	stats.StatusBreakdown = []StatusCount{}
	for _, s := range AllLeadStatuses {
		if n := byStatus[s]; n > 0 {
			stats.StatusBreakdown = append(stats.StatusBreakdown, StatusCount{Status: s, Count: n})
		}
	}

	stats.ServiceBreakdown = []ServiceCount{}
	for _, t := range AllServiceTypes {
		if n := byService[t]; n > 0 {
			stats.ServiceBreakdown = append(stats.ServiceBreakdown, ServiceCount{ServiceType: t, Count: n})
		}
	}

	return stats
}

// ConversionRate is won/(won+lost) as a rounded percentage, 0 when nothing is closed.
func ConversionRate(won, lost int) int {
	closed := won + lost
	if closed == 0 {
		return 0
	}
	return int(math.Round(float64(won) / float64(closed) * 100))
}
