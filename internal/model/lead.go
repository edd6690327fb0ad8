package model

import (
	"strings"
	"time"
)

// LeadDateLayout is the fixed-width calendar date format used for lead_date.
const LeadDateLayout = "2006-01-02"

type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "New"
	LeadStatusContacted     LeadStatus = "Contacted"
	LeadStatusInterested    LeadStatus = "Interested"
	LeadStatusNotInterested LeadStatus = "Not Interested"
	LeadStatusClosedWon     LeadStatus = "Closed-Won"
	LeadStatusClosedLost    LeadStatus = "Closed-Lost"
)

// AllLeadStatuses lists every status in pipeline order.
var AllLeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusInterested,
	LeadStatusNotInterested,
	LeadStatusClosedWon,
	LeadStatusClosedLost,
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew,
		LeadStatusContacted,
		LeadStatusInterested,
		LeadStatusNotInterested,
		LeadStatusClosedWon,
		LeadStatusClosedLost:
		return true
	}
	return false
}

// IsActive reports whether the lead still needs attention in the pipeline.
func (s LeadStatus) IsActive() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusInterested:
		return true
	case LeadStatusNotInterested, LeadStatusClosedWon, LeadStatusClosedLost:
		return false
	}
	return false
}

func (s LeadStatus) IsClosed() bool {
	switch s {
	case LeadStatusClosedWon, LeadStatusClosedLost:
		return true
	case LeadStatusNew, LeadStatusContacted, LeadStatusInterested, LeadStatusNotInterested:
		return false
	}
	return false
}

// ParseLeadStatus matches case-insensitively; ok is false for unknown values.
func ParseLeadStatus(v string) (LeadStatus, bool) {
	v = strings.TrimSpace(v)
	for _, s := range AllLeadStatuses {
		if strings.EqualFold(string(s), v) {
			return s, true
		}
	}
	return "", false
}

type ServiceType string

const (
	ServiceTypeRent   ServiceType = "Rent"
	ServiceTypeResale ServiceType = "Resale"
)

var AllServiceTypes = []ServiceType{ServiceTypeRent, ServiceTypeResale}

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceTypeRent, ServiceTypeResale:
		return true
	}
	return false
}

func ParseServiceType(v string) (ServiceType, bool) {
	v = strings.TrimSpace(v)
	for _, t := range AllServiceTypes {
		if strings.EqualFold(string(t), v) {
			return t, true
		}
	}
	return "", false
}

type PropertyType string

const (
	PropertyTypeApartment        PropertyType = "Apartment"
	PropertyTypeIndependentFloor PropertyType = "Independent Floor"
	PropertyTypeNA               PropertyType = "NA"
)

var AllPropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeIndependentFloor,
	PropertyTypeNA,
}

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeIndependentFloor, PropertyTypeNA:
		return true
	}
	return false
}

func ParsePropertyType(v string) (PropertyType, bool) {
	v = strings.TrimSpace(v)
	for _, t := range AllPropertyTypes {
		if strings.EqualFold(string(t), v) {
			return t, true
		}
	}
	return "", false
}

type Lead struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LeadDate     string       `json:"lead_date" gorm:"type:varchar(10);index"`
	LeadName     string       `json:"lead_name" gorm:"not null"`
	PhoneNumber  string       `json:"phone_number" gorm:"not null"`
	Email        string       `json:"email"`
	ServiceType  ServiceType  `json:"service_type" gorm:"type:varchar(16)"`
	PropertyType PropertyType `json:"property_type" gorm:"type:varchar(32)"`
	Status       LeadStatus   `json:"status" gorm:"type:varchar(32);index"`
	CreatedAt    time.Time    `json:"created_at" gorm:"<-:create;index"`
}

// LeadInput is a lead without its store-assigned identity.
type LeadInput struct {
	LeadDate     string       `json:"lead_date" validate:"required,datetime=2006-01-02"`
	LeadName     string       `json:"lead_name" validate:"required"`
	PhoneNumber  string       `json:"phone_number" validate:"required"`
	Email        string       `json:"email"`
	ServiceType  ServiceType  `json:"service_type" validate:"required,service_type"`
	PropertyType PropertyType `json:"property_type" validate:"required,property_type"`
	Status       LeadStatus   `json:"status" validate:"required,lead_status"`
}

// Normalize trims text fields and fills the defaults used by the dashboard forms.
func (in *LeadInput) Normalize(today time.Time) {
	in.LeadName = strings.TrimSpace(in.LeadName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Email = strings.TrimSpace(in.Email)
	in.LeadDate = strings.TrimSpace(in.LeadDate)
	if in.LeadDate == "" {
		in.LeadDate = today.Format(LeadDateLayout)
	}
	if in.ServiceType == "" {
		in.ServiceType = ServiceTypeRent
	}
	if in.PropertyType == "" {
		in.PropertyType = PropertyTypeNA
	}
	if in.Status == "" {
		in.Status = LeadStatusNew
	}
}
