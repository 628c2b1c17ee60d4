package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scheduling-dashboard/internal/view"
)

type ActivityHandler struct {
	d *view.Dashboard
}

func NewActivityHandler(d *view.Dashboard) *ActivityHandler {
	return &ActivityHandler{d: d}
}

func (h *ActivityHandler) GetActivity(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connection": h.d.State(),
		"activities": h.d.Activity(),
	})
}

func (h *ActivityHandler) GetStreamStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connection": h.d.State(),
	})
}
