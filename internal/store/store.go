// Package store is the gateway between the dashboard and the lead database.
// Writers go through LeadStore; readers register callbacks and receive full
// snapshots whenever the underlying collection changes.
package store

import (
	"context"
	"errors"

	"lms_backend/internal/model"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidLead   = errors.New("invalid lead")
	ErrInvalidStatus = errors.New("invalid lead status")
	ErrEmptyComment  = errors.New("comment text is empty")
	ErrHubClosed     = errors.New("subscription hub closed")
)

// Unsubscribe releases a subscription. It is safe to call more than once but
// must not be called from inside the subscription callback.
type Unsubscribe func()

type LeadStore interface {
	// SubscribeLeads pushes every lead, newest created_at first, on each change.
	SubscribeLeads(fn func([]model.Lead)) (Unsubscribe, error)
	CreateLead(ctx context.Context, in model.LeadInput) (model.Lead, error)
	UpdateStatus(ctx context.Context, id string, status model.LeadStatus) error
	// SubscribeComments pushes every comment, oldest timestamp first, on each change.
	SubscribeComments(fn func([]model.Comment)) (Unsubscribe, error)
	AddComment(ctx context.Context, leadID, text string) (model.Comment, error)
}

// Reader covers the point queries used by the HTTP handlers.
type Reader interface {
	ListLeads(ctx context.Context) ([]model.Lead, error)
	GetLead(ctx context.Context, id string) (model.Lead, error)
	ListComments(ctx context.Context, leadID string) ([]model.Comment, error)
}
