package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/repository"
)

type HistoryHandler struct {
	r repository.RescheduleHistoryRepository
}

// NewHistoryHandler accepts a nil repository when no database is configured.
func NewHistoryHandler(r repository.RescheduleHistoryRepository) *HistoryHandler {
	return &HistoryHandler{r: r}
}

func (h *HistoryHandler) ListReschedules(c *fiber.Ctx) error {
	if h.r == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reschedule history is not configured",
		})
	}

	var (
		attempts []*models.RescheduleAttempt
		err      error
	)
	if itemID := c.Query("item_id"); itemID != "" {
		attempts, err = h.r.ListByItemID(c.UserContext(), itemID)
	} else {
		attempts, err = h.r.ListRecent(c.UserContext(), c.QueryInt("limit", repository.DefaultHistoryLimit))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list reschedules",
		})
	}
	if attempts == nil {
		attempts = []*models.RescheduleAttempt{}
	}
	return c.JSON(attempts)
}
