package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/scheduling-dashboard/internal/calendar"
	"github.com/maheshrc27/scheduling-dashboard/internal/reschedule"
	"github.com/maheshrc27/scheduling-dashboard/internal/transfer"
	"github.com/maheshrc27/scheduling-dashboard/internal/view"
)

type CalendarHandler struct {
	s *view.Scheduler
}

func NewCalendarHandler(s *view.Scheduler) *CalendarHandler {
	return &CalendarHandler{s: s}
}

func (h *CalendarHandler) GetCalendar(c *fiber.Ctx) error {
	if month := c.Query("month"); month != "" {
		m, err := calendar.ParseMonth(month, h.s.Engine.Month().Location())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Month must look like 2006-01",
			})
		}
		h.s.Engine.Goto(m)
	}
	return h.renderGrid(c)
}

func (h *CalendarHandler) NextMonth(c *fiber.Ctx) error {
	h.s.Engine.Next()
	return h.renderGrid(c)
}

func (h *CalendarHandler) PreviousMonth(c *fiber.Ctx) error {
	h.s.Engine.Previous()
	return h.renderGrid(c)
}

func (h *CalendarHandler) renderGrid(c *fiber.Ctx) error {
	grid, err := h.s.Engine.Grid(c.UserContext())
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}
	return c.JSON(grid)
}

func (h *CalendarHandler) DropPost(c *fiber.Ctx) error {
	var req transfer.DropRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := GetUserID(c)
	ctx := reschedule.WithRequester(c.UserContext(), userID)
	ticket, err := h.s.Engine.Drop(ctx, calendar.DropEvent{ItemID: req.ItemID, Target: req.Target})
	switch {
	case errors.Is(err, calendar.ErrUnknownItem):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	case errors.Is(err, calendar.ErrInvalidTarget):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Target must be a date like 2006-01-02",
		})
	case errors.Is(err, calendar.ErrNoScheduler):
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Rescheduling is not available",
		})
	case err != nil:
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}

	if ticket == nil {
		slog.Debug("drop needs no reschedule", "post_id", req.ItemID, "user_id", userID)
		return c.Status(fiber.StatusOK).JSON(transfer.DropResponse{Status: "noop"})
	}
	return c.Status(fiber.StatusAccepted).JSON(transfer.DropResponse{
		Status:  "submitted",
		TraceID: ticket.TraceID,
	})
}

func (h *CalendarHandler) ListUnscheduled(c *fiber.Ctx) error {
	posts, err := h.s.Engine.Unscheduled(c.UserContext())
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to load posts",
		})
	}
	return c.JSON(posts)
}
