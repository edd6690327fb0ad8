// pkg/email/email.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"lms_backend/internal/model"
)

const DefaultFrom = "Lead Desk <noreply@leaddesk.app>"

type EmailService struct {
	from      string
	client    *resend.Client
	templates *template.Template
	log       *zap.Logger
}

type DigestData struct {
	Date  time.Time
	Stats model.PipelineStats
}

func NewEmailService(apiKey string, log *zap.Logger) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	return &EmailService{
		from:      DefaultFrom,
		client:    resend.NewClient(apiKey),
		templates: templates,
		log:       log,
	}, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("resend API error: %w", err)
	}

	s.log.Debug("Digest email sent", zap.String("to", to), zap.String("id", sent.Id))
	return nil
}

// SendPipelineDigest mails the daily pipeline summary.
func (s *EmailService) SendPipelineDigest(ctx context.Context, to string, date time.Time, stats model.PipelineStats) error {
	data := DigestData{
		Date:  date,
		Stats: stats,
	}
	subject := fmt.Sprintf("Pipeline digest: %d active, %d%% conversion 📊", stats.ActiveLeads, stats.ConversionRate)
	return s.sendTemplateEmail(ctx, to, subject, "digest.html", data)
}
