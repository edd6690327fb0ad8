package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleLeads() []Lead {
	return []Lead{
		{ID: "1", LeadName: "Arjun Kumar", PhoneNumber: "+919000000001", Email: "Arjun@Example.com", LeadDate: "2024-03-01", ServiceType: ServiceTypeRent, PropertyType: PropertyTypeApartment, Status: LeadStatusNew},
		{ID: "2", LeadName: "Priya Singh", PhoneNumber: "9000000002", Email: "priya@example.com", LeadDate: "2024-03-05", ServiceType: ServiceTypeResale, PropertyType: PropertyTypeIndependentFloor, Status: LeadStatusClosedWon},
		{ID: "3", LeadName: "Rahul Sharma", PhoneNumber: "9000000003", Email: "rahul@mail.in", LeadDate: "2024-03-10", ServiceType: ServiceTypeRent, PropertyType: PropertyTypeNA, Status: LeadStatusContacted},
	}
}

func TestFilterState_EmptyMatchesEverything(t *testing.T) {
	for _, l := range sampleLeads() {
		assert.True(t, FilterState{}.Matches(l), l.ID)
	}
	assert.True(t, FilterState{}.Matches(Lead{}))
}

func TestFilterState_Search(t *testing.T) {
	leads := sampleLeads()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"name is case-insensitive", "arjun", []string{"1"}},
		{"email is case-insensitive", "EXAMPLE.COM", []string{"1", "2"}},
		{"phone is literal", "000002", []string{"2"}},
		{"phone keeps leading symbols", "+91", []string{"1"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterLeads(leads, FilterState{Search: tt.search})
			var ids []string
			for _, l := range got {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterState_StatusMismatchAlwaysExcludes(t *testing.T) {
	for _, l := range sampleLeads() {
		for _, s := range AllLeadStatuses {
			f := FilterState{Status: s, Search: l.LeadName, ServiceType: l.ServiceType}
			assert.Equal(t, s == l.Status, f.Matches(l), "%s vs %s", s, l.Status)
		}
	}
}

func TestFilterState_ServiceType(t *testing.T) {
	got := FilterLeads(sampleLeads(), FilterState{ServiceType: ServiceTypeRent})
	assert.Len(t, got, 2)
	for _, l := range got {
		assert.Equal(t, ServiceTypeRent, l.ServiceType)
	}
}

func TestFilterState_DateRangeInclusive(t *testing.T) {
	f := FilterState{DateStart: "2024-03-05", DateEnd: "2024-03-10"}

	assert.True(t, f.Matches(Lead{LeadDate: "2024-03-05"}))
	assert.True(t, f.Matches(Lead{LeadDate: "2024-03-07"}))
	assert.True(t, f.Matches(Lead{LeadDate: "2024-03-10"}))
	assert.False(t, f.Matches(Lead{LeadDate: "2024-03-04"}))
	assert.False(t, f.Matches(Lead{LeadDate: "2024-03-11"}))
}

func TestFilterState_SingleDateBoundIsIgnored(t *testing.T) {
	early := Lead{LeadDate: "2020-01-01"}
	late := Lead{LeadDate: "2030-01-01"}

	onlyStart := FilterState{DateStart: "2024-03-05"}
	onlyEnd := FilterState{DateEnd: "2024-03-05"}

	assert.True(t, onlyStart.Matches(early))
	assert.True(t, onlyStart.Matches(late))
	assert.True(t, onlyEnd.Matches(early))
	assert.True(t, onlyEnd.Matches(late))
}

func TestFilterState_ConditionsAreAnded(t *testing.T) {
	f := FilterState{
		Search:      "r",
		Status:      LeadStatusContacted,
		ServiceType: ServiceTypeRent,
		DateStart:   "2024-03-01",
		DateEnd:     "2024-03-31",
	}
	got := FilterLeads(sampleLeads(), f)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "3", got[0].ID)
	}
}
