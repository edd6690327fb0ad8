package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms_backend/internal/model"
	"lms_backend/internal/store"
	"lms_backend/pkg/utils/phone"
)

// LeadView is the live, in-memory read model kept current by subscriptions.
type LeadView interface {
	Leads() []model.Lead
	Stats() model.PipelineStats
}

type LeadController struct {
	leads  store.LeadStore
	reader store.Reader
	view   LeadView
}

func NewLeadController(leads store.LeadStore, reader store.Reader, view LeadView) *LeadController {
	return &LeadController{leads: leads, reader: reader, view: view}
}

type StatusInput struct {
	Status string `json:"status"`
}

type CommentInput struct {
	Text string `json:"text"`
}

func (lc *LeadController) filter(c *fiber.Ctx) (model.FilterState, error) {
	var f model.FilterState
	if err := c.QueryParser(&f); err != nil {
		return model.FilterState{}, err
	}
	return f, nil
}

// GetLeads returns the cached leads, newest first, narrowed by the query filter.
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	f, err := lc.filter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}
	return c.JSON(model.FilterLeads(lc.view.Leads(), f))
}

func (lc *LeadController) GetBoard(c *fiber.Ctx) error {
	f, err := lc.filter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filter",
		})
	}
	return c.JSON(model.GroupByStatus(model.FilterLeads(lc.view.Leads(), f)))
}

// GetStats aggregates over every lead; the filter does not apply.
func (lc *LeadController) GetStats(c *fiber.Ctx) error {
	return c.JSON(lc.view.Stats())
}

func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	input := new(model.LeadInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	lead, err := lc.leads.CreateLead(c.UserContext(), *input)
	if err != nil {
		return storeError(c, err, "Could not create lead")
	}

	return c.Status(fiber.StatusCreated).JSON(lead)
}

func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	lead, err := lc.reader.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "Could not fetch lead")
	}
	return c.JSON(lead)
}

func (lc *LeadController) UpdateLeadStatus(c *fiber.Ctx) error {
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	status, ok := model.ParseLeadStatus(input.Status)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Invalid status value",
			"valid_statuses": model.AllLeadStatuses,
		})
	}

	id := c.Params("id")
	if err := lc.leads.UpdateStatus(c.UserContext(), id, status); err != nil {
		return storeError(c, err, "Could not update lead status")
	}

	return c.JSON(fiber.Map{
		"message": "Lead status updated successfully",
		"id":      id,
		"status":  status,
	})
}

func (lc *LeadController) GetComments(c *fiber.Ctx) error {
	comments, err := lc.reader.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "Could not fetch comments")
	}
	return c.JSON(comments)
}

// AddComment accepts comments for any lead id; no existence check is made.
func (lc *LeadController) AddComment(c *fiber.Ctx) error {
	input := new(CommentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	comment, err := lc.leads.AddComment(c.UserContext(), c.Params("id"), input.Text)
	if err != nil {
		return storeError(c, err, "Could not add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetLinks returns the contact actions of a lead card.
func (lc *LeadController) GetLinks(c *fiber.Ctx) error {
	lead, err := lc.reader.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "Could not fetch lead")
	}

	links := fiber.Map{
		"tel":      phone.TelLink(lead.PhoneNumber),
		"whatsapp": phone.WhatsAppLink(lead.PhoneNumber),
	}
	if lead.Email != "" {
		links["mailto"] = "mailto:" + lead.Email
	}
	return c.JSON(links)
}

// storeError maps store sentinels to HTTP statuses; anything else is a 500
// carrying fallback as message.
func storeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, store.ErrLeadNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	case errors.Is(err, store.ErrInvalidLead),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrEmptyComment):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
