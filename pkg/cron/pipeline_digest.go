// pkg/cron/pipeline_digest.go

package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lms_backend/internal/model"
)

const (
	DefaultDigestSchedule = "0 19 * * *"
	digestTimeout         = 30 * time.Second
)

// DigestSender delivers one pipeline summary.
type DigestSender interface {
	SendPipelineDigest(ctx context.Context, to string, date time.Time, stats model.PipelineStats) error
}

// DigestJob mails the current pipeline statistics at most once per day.
type DigestJob struct {
	stats  func() model.PipelineStats
	sender DigestSender
	to     string
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func NewDigestJob(stats func() model.PipelineStats, sender DigestSender, to string, log *zap.Logger) *DigestJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &DigestJob{stats: stats, sender: sender, to: to, log: log, now: time.Now}
}

// Run sends the digest unless one went out in the last 23 hours.
func (j *DigestJob) Run() {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	if !j.lastRun.IsZero() && now.Sub(j.lastRun) < 23*time.Hour {
		j.log.Info("Pipeline digest already sent today, skipping")
		return
	}

	stats := j.stats()
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := j.sender.SendPipelineDigest(ctx, j.to, now, stats); err != nil {
		j.log.Error("Error sending pipeline digest", zap.String("to", j.to), zap.Error(err))
		return
	}

	j.lastRun = now
	j.log.Info("Sent pipeline digest",
		zap.String("to", j.to), zap.Int("total", stats.Total), zap.Int("active", stats.ActiveLeads))
}

// Start schedules job with a standard five-field cron expression. The returned cron
// must be stopped on shutdown.
func Start(schedule string, job *DigestJob, log *zap.Logger) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}

	c := cron.New()
	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("could not schedule pipeline digest %q: %w", schedule, err)
	}

	c.Start()
	log.Info("Pipeline digest cron initialized", zap.String("schedule", schedule))
	return c, nil
}
