package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scheduling-dashboard/internal/notify"
)

type NotificationHandler struct {
	n *notify.Center
}

func NewNotificationHandler(n *notify.Center) *NotificationHandler {
	return &NotificationHandler{n: n}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	return c.JSON(h.n.List())
}

func (h *NotificationHandler) DismissNotification(c *fiber.Ctx) error {
	if !h.n.Dismiss(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
