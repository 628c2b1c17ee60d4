package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scheduling-dashboard/internal/cache"
	"github.com/maheshrc27/scheduling-dashboard/internal/view"
)

type HealthHandler struct {
	d   *view.Dashboard
	col *cache.Collection
}

func NewHealthHandler(d *view.Dashboard, col *cache.Collection) *HealthHandler {
	return &HealthHandler{d: d, col: col}
}

func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":        "ok",
		"connection":    h.d.State(),
		"cache_version": h.col.Version(),
	}
	if at := h.col.FetchedAt(); !at.IsZero() {
		resp["cache_fetched_at"] = at
	}
	return c.JSON(resp)
}
