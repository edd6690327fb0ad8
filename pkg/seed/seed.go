package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"lms_backend/internal/model"
)

// LeadWriter is the store surface the seeder writes through, so seeded leads
// reach every live subscriber like any other write.
type LeadWriter interface {
	ListLeads(ctx context.Context) ([]model.Lead, error)
	CreateLead(ctx context.Context, in model.LeadInput) (model.Lead, error)
	UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error
	AddComment(ctx context.Context, leadID, text string) (model.Comment, error)
}

type demoLead struct {
	input    model.LeadInput
	status   model.LeadStatus
	comments []string
}

var demoLeads = []demoLead{
	{
		input: model.LeadInput{LeadDate: "2024-03-01", LeadName: "Arjun Mehta", PhoneNumber: "9876543210",
			Email: "arjun@example.com", ServiceType: model.ServiceTypeRent, PropertyType: model.PropertyTypeApartment},
		status: model.LeadStatusNew,
	},
	{
		input: model.LeadInput{LeadDate: "2024-03-03", LeadName: "Priya Sharma", PhoneNumber: "9812345678",
			Email: "priya@example.com", ServiceType: model.ServiceTypeResale, PropertyType: model.PropertyTypeIndependentFloor},
		status:   model.LeadStatusInterested,
		comments: []string{"Wants a 3BHK near the metro", "Site visit booked for Saturday"},
	},
	{
		input: model.LeadInput{LeadDate: "2024-03-05", LeadName: "Rahul Verma", PhoneNumber: "9900112233",
			ServiceType: model.ServiceTypeRent, PropertyType: model.PropertyTypeNA},
		status:   model.LeadStatusContacted,
		comments: []string{"Called once, asked to follow up next week"},
	},
	{
		input: model.LeadInput{LeadDate: "2024-03-08", LeadName: "Sneha Iyer", PhoneNumber: "9123456780",
			Email: "sneha@example.com", ServiceType: model.ServiceTypeResale, PropertyType: model.PropertyTypeApartment},
		status:   model.LeadStatusClosedWon,
		comments: []string{"Token amount received"},
	},
	{
		input: model.LeadInput{LeadDate: "2024-03-10", LeadName: "Vikram Nair", PhoneNumber: "9988776655",
			ServiceType: model.ServiceTypeRent, PropertyType: model.PropertyTypeIndependentFloor},
		status:   model.LeadStatusClosedLost,
		comments: []string{"Chose another broker"},
	},
}

// SeedDemoLeads fills an empty lead table with a small sample pipeline.
// A table that already holds leads is left untouched.
func SeedDemoLeads(ctx context.Context, w LeadWriter, log *zap.Logger) (int, error) {
	existing, err := w.ListLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing leads: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Leads already present, skipping demo seed", zap.Int("count", len(existing)))
		return 0, nil
	}

	for i, d := range demoLeads {
		lead, err := w.CreateLead(ctx, d.input)
		if err != nil {
			return i, fmt.Errorf("seed lead %s: %w", d.input.LeadName, err)
		}
		if d.status != model.LeadStatusNew {
			if err := w.UpdateStatus(ctx, lead.ID, d.status); err != nil {
				return i, fmt.Errorf("seed status for %s: %w", d.input.LeadName, err)
			}
		}
		for _, text := range d.comments {
			if _, err := w.AddComment(ctx, lead.ID, text); err != nil {
				return i, fmt.Errorf("seed comment for %s: %w", d.input.LeadName, err)
			}
		}
	}

	log.Info("Demo leads seeded successfully", zap.Int("count", len(demoLeads)))
	return len(demoLeads), nil
}
