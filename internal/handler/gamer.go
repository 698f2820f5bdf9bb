package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/service"
)

type GamerHandler struct {
	gamerSvc  *service.GamerService
	ledgerSvc *service.LedgerService
}

func NewGamerHandler(gamerSvc *service.GamerService, ledgerSvc *service.LedgerService) *GamerHandler {
	return &GamerHandler{gamerSvc: gamerSvc, ledgerSvc: ledgerSvc}
}

func gamerID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, c.Status(400).JSON(fiber.Map{"error": "invalid gamer id"})
	}
	return id, nil
}

// List returns gamers, optionally filtered by card-number substring.
// Unfiltered listings can be large; the dashboard warns before asking.
func (h *GamerHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.gamerSvc.List(c.Query("card")))
}

func (h *GamerHandler) Get(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	g, err := h.gamerSvc.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (h *GamerHandler) GetByCard(c *fiber.Ctx) error {
	g, err := h.gamerSvc.GetByCard(c.Params("number"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(g)
}

func (h *GamerHandler) BindCard(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	var req model.BindCardRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.gamerSvc.SetCard(id, req.CardNumber); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "bound"})
}

func (h *GamerHandler) ClearCard(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	if err := h.gamerSvc.ClearCard(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

func (h *GamerHandler) SetBlocked(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	var req model.SetBlockedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.gamerSvc.SetBlocked(id, req.Blocked); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "updated", "blocked": req.Blocked})
}

// GrantPoints credits points over the API: event-scoped when an event code
// is supplied, global otherwise.
func (h *GamerHandler) GrantPoints(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	var req model.GrantPointsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if req.EventCode != "" {
		err = h.ledgerSvc.GrantEventPoints(id, req.EventCode, req.Points)
	} else {
		err = h.ledgerSvc.GrantAPIPoints(id, req.Points)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "granted"})
}

func (h *GamerHandler) History(c *fiber.Ctx) error {
	id, err := gamerID(c)
	if err != nil {
		return err
	}
	items, err := h.ledgerSvc.History(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}
