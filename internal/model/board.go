package model

type BoardColumn struct {
	Status LeadStatus `json:"status"`
	Count  int        `json:"count"`
	Leads  []Lead     `json:"leads"`
}

// GroupByStatus builds the kanban board: one column per status, empty ones included.
func GroupByStatus(leads []Lead) []BoardColumn {
	index := make(map[LeadStatus]int, len(AllLeadStatuses))
	columns := make([]BoardColumn, len(AllLeadStatuses))
	for i, s := range AllLeadStatuses {
		index[s] = i
		columns[i] = BoardColumn{Status: s, Leads: []Lead{}}
	}

	for _, l := range leads {
		i, ok := index[l.Status]
		if !ok {
			continue
		}
		columns[i].Leads = append(columns[i].Leads, l)
		columns[i].Count++
	}
	return columns
}
