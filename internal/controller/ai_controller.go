package controller

import (
	"github.com/gofiber/fiber/v2"

	"lms_backend/internal/ai"
	"lms_backend/internal/dashboard"
	"lms_backend/internal/store"
)

type AIController struct {
	reader    store.Reader
	assistant dashboard.Assistant
}

func NewAIController(reader store.Reader, assistant dashboard.Assistant) *AIController {
	return &AIController{reader: reader, assistant: assistant}
}

type DraftInput struct {
	Tone string `json:"tone"`
}

// Draft writes a message to the lead in the requested tone (formal when unset).
// Generation failures come back as fallback text with a 200.
func (ac *AIController) Draft(c *fiber.Ctx) error {
	input := new(DraftInput)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid input",
			})
		}
	}

	tone := ai.ToneFormal
	if input.Tone != "" {
		tone = ai.Tone(input.Tone)
	}
	if !tone.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":       "Invalid tone",
			"valid_tones": []ai.Tone{ai.ToneFormal, ai.ToneCasual, ai.TonePersuasive},
		})
	}

	lead, err := ac.reader.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "Could not fetch lead")
	}

	return c.JSON(fiber.Map{
		"lead_id": lead.ID,
		"tone":    tone,
		"draft":   ac.assistant.DraftMessage(c.UserContext(), lead, tone),
	})
}

func (ac *AIController) Analyze(c *fiber.Ctx) error {
	ctx := c.UserContext()

	lead, err := ac.reader.GetLead(ctx, c.Params("id"))
	if err != nil {
		return storeError(c, err, "Could not fetch lead")
	}

	comments, err := ac.reader.ListComments(ctx, lead.ID)
	if err != nil {
		return storeError(c, err, "Could not fetch comments")
	}

	texts := make([]string, 0, len(comments))
	for _, cm := range comments {
		texts = append(texts, cm.CommentText)
	}

	return c.JSON(fiber.Map{
		"lead_id":  lead.ID,
		"analysis": ac.assistant.AnalyzeLead(ctx, lead, texts),
	})
}
