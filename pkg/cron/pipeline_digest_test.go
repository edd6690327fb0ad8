package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lms_backend/internal/model"
)

type recordingSender struct {
	calls []model.PipelineStats
	to    string
	err   error
}

func (r *recordingSender) SendPipelineDigest(_ context.Context, to string, _ time.Time, stats model.PipelineStats) error {
	r.to = to
	r.calls = append(r.calls, stats)
	return r.err
}

func TestDigestJob_OncePerDay(t *testing.T) {
	sender := &recordingSender{}
	stats := model.PipelineStats{Total: 4, ActiveLeads: 2}
	job := NewDigestJob(func() model.PipelineStats { return stats }, sender, "ops@example.com", nil)

	now := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	job.Run()
	job.Run()
	require.Len(t, sender.calls, 1)
	assert.Equal(t, stats, sender.calls[0])
	assert.Equal(t, "ops@example.com", sender.to)

	now = now.Add(24 * time.Hour)
	job.Run()
	assert.Len(t, sender.calls, 2)
}

func TestDigestJob_FailureIsRetried(t *testing.T) {
	sender := &recordingSender{err: errors.New("resend down")}
	job := NewDigestJob(func() model.PipelineStats { return model.PipelineStats{} }, sender, "ops@example.com", nil)

	job.Run()
	sender.err = nil
	job.Run()
	assert.Len(t, sender.calls, 2)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	job := NewDigestJob(func() model.PipelineStats { return model.PipelineStats{} }, &recordingSender{}, "x", nil)

	_, err := Start("not a schedule", job, zap.NewNop())
	assert.Error(t, err)

	c, err := Start("", job, zap.NewNop())
	require.NoError(t, err)
	<-c.Stop().Done()
}
