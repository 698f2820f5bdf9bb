package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/service"
)

type EventHandler struct {
	catalogSvc *service.CatalogService
	ledgerSvc  *service.LedgerService
}

func NewEventHandler(catalogSvc *service.CatalogService, ledgerSvc *service.LedgerService) *EventHandler {
	return &EventHandler{catalogSvc: catalogSvc, ledgerSvc: ledgerSvc}
}

func subID(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, c.Status(400).JSON(fiber.Map{"error": "invalid " + name})
	}
	return id, nil
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.catalogSvc.ListEvents())
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	ev, err := h.catalogSvc.GetEvent(c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ev)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req model.CreateEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ev, err := h.catalogSvc.CreateEvent(&req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(ev)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	ev, err := h.catalogSvc.EditEvent(c.Params("code"), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ev)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalogSvc.DeleteEvent(c.Params("code")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *EventHandler) AddTask(c *fiber.Ctx) error {
	var req model.TaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := h.catalogSvc.AddTask(c.Params("code"), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(t)
}

func (h *EventHandler) EditTask(c *fiber.Ctx) error {
	id, err := subID(c, "taskID")
	if err != nil {
		return err
	}
	var req model.TaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := h.catalogSvc.EditTask(c.Params("code"), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

func (h *EventHandler) DeleteTask(c *fiber.Ctx) error {
	id, err := subID(c, "taskID")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeleteTask(c.Params("code"), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *EventHandler) AddPrize(c *fiber.Ctx) error {
	var req model.PrizeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.catalogSvc.AddPrize(c.Params("code"), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(p)
}

func (h *EventHandler) EditPrize(c *fiber.Ctx) error {
	id, err := subID(c, "prizeID")
	if err != nil {
		return err
	}
	var req model.PrizeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.catalogSvc.EditPrize(c.Params("code"), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *EventHandler) DeletePrize(c *fiber.Ctx) error {
	id, err := subID(c, "prizeID")
	if err != nil {
		return err
	}
	if err := h.catalogSvc.DeletePrize(c.Params("code"), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *EventHandler) Join(c *fiber.Ctx) error {
	var req model.JoinEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.catalogSvc.JoinEvent(req.GamerID, c.Params("code")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "joined"})
}

func (h *EventHandler) Redeem(c *fiber.Ctx) error {
	var req model.RedeemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.ledgerSvc.Redeem(req.GamerID, c.Params("code"), req.PrizeID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "redeemed"})
}
