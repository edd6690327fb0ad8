package seed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lms_backend/internal/model"
)

type memWriter struct {
	leads    []model.Lead
	comments []model.Comment
	failOn   string
}

func (m *memWriter) ListLeads(context.Context) ([]model.Lead, error) {
	return m.leads, nil
}

func (m *memWriter) CreateLead(_ context.Context, in model.LeadInput) (model.Lead, error) {
	if in.LeadName == m.failOn {
		return model.Lead{}, errors.New("write failed")
	}
	l := model.Lead{ID: fmt.Sprint(len(m.leads) + 1), LeadName: in.LeadName, Status: model.LeadStatusNew}
	m.leads = append(m.leads, l)
	return l, nil
}

func (m *memWriter) UpdateStatus(_ context.Context, id string, status model.LeadStatus) error {
	for i := range m.leads {
		if m.leads[i].ID == id {
			m.leads[i].Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memWriter) AddComment(_ context.Context, leadID, text string) (model.Comment, error) {
	c := model.Comment{LeadID: leadID, CommentText: text}
	m.comments = append(m.comments, c)
	return c, nil
}

func TestSeedDemoLeads(t *testing.T) {
	w := &memWriter{}

	n, err := SeedDemoLeads(context.Background(), w, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, len(demoLeads), n)

	stats := model.Aggregate(w.leads)
	assert.Equal(t, 1, stats.ClosedWon)
	assert.Equal(t, 1, stats.ClosedLost)
	assert.Equal(t, 50, stats.ConversionRate)
	assert.Len(t, w.comments, 5)
}

func TestSeedDemoLeads_SkipsPopulatedTable(t *testing.T) {
	w := &memWriter{leads: []model.Lead{{ID: "x"}}}

	n, err := SeedDemoLeads(context.Background(), w, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, w.leads, 1)
}

func TestSeedDemoLeads_StopsOnError(t *testing.T) {
	w := &memWriter{failOn: "Rahul Verma"}

	n, err := SeedDemoLeads(context.Background(), w, zap.NewNop())
	assert.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestDemoLeadsAreValid(t *testing.T) {
	for _, d := range demoLeads {
		in := d.input
		in.Status = model.LeadStatusNew
		assert.NoError(t, in.Validate(), d.input.LeadName)
	}
}
