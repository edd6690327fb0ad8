package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lms_backend/internal/model"
)

type Tone string

const (
	ToneFormal     Tone = "formal"
	ToneCasual     Tone = "casual"
	TonePersuasive Tone = "persuasive"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneFormal, ToneCasual, TonePersuasive:
		return true
	}
	return false
}

// Fallback texts shown instead of an error.
const (
	DraftEmptyText    = "Could not generate message."
	DraftErrorText    = "Error generating message. Please check API key."
	AnalysisEmptyText = "Analysis unavailable."
	AnalysisErrorText = "Error analyzing lead."
	noCommentsText    = "No comments yet."
)

// Assistant drafts messages and analyses leads. Its methods never fail:
// generation problems are logged and replaced with a fallback text.
type Assistant struct {
	gen Generator
	log *zap.Logger
}

// NewAssistant accepts a nil generator; every call then yields the error fallback.
func NewAssistant(gen Generator, log *zap.Logger) *Assistant {
	if gen == nil {
		gen = unavailableGenerator{err: ErrMissingCredential}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{gen: gen, log: log}
}

func (a *Assistant) DraftMessage(ctx context.Context, lead model.Lead, tone Tone) string {
	text, err := a.gen.Generate(ctx, draftPrompt(lead, tone))
	if err != nil {
		a.log.Error("Error generating message", zap.String("lead_id", lead.ID), zap.Error(err))
		return DraftErrorText
	}
	if strings.TrimSpace(text) == "" {
		return DraftEmptyText
	}
	return text
}

func (a *Assistant) AnalyzeLead(ctx context.Context, lead model.Lead, comments []string) string {
	text, err := a.gen.Generate(ctx, analysisPrompt(lead, comments))
	if err != nil {
		a.log.Error("Error analyzing lead", zap.String("lead_id", lead.ID), zap.Error(err))
		return AnalysisErrorText
	}
	if strings.TrimSpace(text) == "" {
		return AnalysisEmptyText
	}
	return text
}

func draftPrompt(lead model.Lead, tone Tone) string {
	return fmt.Sprintf(`You are a real estate agent assistant.
Draft a short, professional WhatsApp message for a lead with the following details:
Name: %s
Interest: %s for %s
Status: %s

Tone: %s.
Include a placeholder for a meeting time if appropriate.
Do not include subject lines or placeholders for signature, just the message body.`,
		lead.LeadName, lead.ServiceType, lead.PropertyType, lead.Status, tone)
}

func analysisPrompt(lead model.Lead, comments []string) string {
	history := noCommentsText
	if len(comments) > 0 {
		lines := make([]string, len(comments))
		for i, c := range comments {
			lines[i] = "- " + c
		}
		history = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Analyze the following real estate lead and provide a brief 2-sentence sentiment analysis and a recommended next step.

Lead: %s (%s - %s)
Current Status: %s
History of comments:
%s`,
		lead.LeadName, lead.ServiceType, lead.PropertyType, lead.Status, history)
}
