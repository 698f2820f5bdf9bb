package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ElvisLo030/RA-bot/internal/model"
	"github.com/ElvisLo030/RA-bot/internal/store"
)

// DashboardHandler serves the read-only overview the dashboard polls.
type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{store: st}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	h.store.Lock()
	defer h.store.Unlock()

	pending, approved, rejected := 0, 0, 0
	for _, subs := range h.store.Submissions {
		for _, sub := range subs {
			switch sub.Status {
			case model.StatusPending:
				pending++
			case model.StatusApproved:
				approved++
			case model.StatusRejected:
				rejected++
			}
		}
	}

	boundCards := 0
	for _, g := range h.store.Gamers {
		if g.CardNumber != nil {
			boundCards++
		}
	}

	return c.JSON(fiber.Map{
		"gamers":               len(h.store.Gamers),
		"bound_cards":          boundCards,
		"events":               len(h.store.Events),
		"submissions_pending":  pending,
		"submissions_approved": approved,
		"submissions_rejected": rejected,
	})
}
