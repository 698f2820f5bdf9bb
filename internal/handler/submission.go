package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/service"
)

type SubmissionHandler struct {
	ledgerSvc *service.LedgerService
}

func NewSubmissionHandler(ledgerSvc *service.LedgerService) *SubmissionHandler {
	return &SubmissionHandler{ledgerSvc: ledgerSvc}
}

// Submit records a pending proof-of-completion for moderator review.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.ledgerSvc.Submit(req.GamerID, req.EventCode, req.TaskID, req.Filename)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(sub)
}

// Review settles a pending submission.
func (h *SubmissionHandler) Review(c *fiber.Ctx) error {
	var req model.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.ledgerSvc.Review(req.Filename, req.TaskID, req.Decision == "approve")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sub)
}
