package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/maheshrc27/scheduling-dashboard/configs"
	"github.com/maheshrc27/scheduling-dashboard/internal/api/handlers"
	"github.com/maheshrc27/scheduling-dashboard/internal/api/middleware"
	"github.com/maheshrc27/scheduling-dashboard/internal/cache"
	"github.com/maheshrc27/scheduling-dashboard/internal/repository"
	"github.com/maheshrc27/scheduling-dashboard/internal/view"
)

type Deps struct {
	Config     config.Config
	Dashboard  *view.Dashboard
	Scheduler  *view.Scheduler
	Collection *cache.Collection
	// History is nil when no database is configured.
	History repository.RescheduleHistoryRepository
	// RequestLog toggles the per-request access log.
	RequestLog bool
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	if d.RequestLog {
		app.Use(logger.New())
	}
	// credentials need an explicit origin; a wildcard is rejected by cors
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.FrontendURL,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: d.Config.FrontendURL != "",
		MaxAge:           3600,
	}))

	health := handlers.NewHealthHandler(d.Dashboard, d.Collection)
	app.Get("/healthz", health.Healthz)

	authMiddleware := middleware.NewAuthMiddleware(d.Config)
	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	activity := handlers.NewActivityHandler(d.Dashboard)
	api.Get("/activity", activity.GetActivity)
	api.Get("/stream/status", activity.GetStreamStatus)

	calendar := handlers.NewCalendarHandler(d.Scheduler)
	api.Get("/calendar", calendar.GetCalendar)
	api.Post("/calendar/next", calendar.NextMonth)
	api.Post("/calendar/previous", calendar.PreviousMonth)
	api.Post("/calendar/drop", calendar.DropPost)
	api.Get("/calendar/unscheduled", calendar.ListUnscheduled)

	notifications := handlers.NewNotificationHandler(d.Scheduler.Notifications)
	api.Get("/notifications", notifications.ListNotifications)
	api.Delete("/notifications/:id", notifications.DismissNotification)

	history := handlers.NewHistoryHandler(d.History)
	api.Get("/reschedules", history.ListReschedules)

	return app
}
