package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/scheduling-dashboard/configs"
	"github.com/maheshrc27/scheduling-dashboard/internal/api"
	"github.com/maheshrc27/scheduling-dashboard/internal/cache"
	job "github.com/maheshrc27/scheduling-dashboard/internal/jobs"
	"github.com/maheshrc27/scheduling-dashboard/internal/remote"
	"github.com/maheshrc27/scheduling-dashboard/internal/repository"
	"github.com/maheshrc27/scheduling-dashboard/internal/reschedule"
	"github.com/maheshrc27/scheduling-dashboard/internal/stream"
	"github.com/maheshrc27/scheduling-dashboard/internal/view"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	loc, err := cfg.Calendar.LoadLocation()
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Calendar.Timezone, err)
	}

	policy, err := reschedule.ParseTimePolicy(cfg.Calendar.TimePolicy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.SecretKey == "" {
		slog.Warn("SECRET_KEY is empty, API authentication is disabled")
	}

	var db *sql.DB
	var history repository.RescheduleHistoryRepository
	if cfg.PostgresURI != "" {
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		history = repository.NewRescheduleHistoryRepository(db)
		if err := history.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare reschedule history: %v", err)
		}
	}

	client := remote.NewClient(remote.Options{
		BaseURL:    cfg.APIURL,
		Token:      cfg.APIToken,
		Location:   loc,
		MaxRetries: 3,
		PageSize:   cfg.RemotePageSize,
	})
	collection := cache.NewCollection(client)

	scheduler := view.NewScheduler(view.SchedulerOptions{
		Collection:  collection,
		Rescheduler: client,
		History:     history,
		Policy:      policy,
		Optimistic:  cfg.Calendar.Optimistic,
		Location:    loc,
		WeekStart:   cfg.Calendar.WeekStart,
	})

	var retry stream.RetryPolicy = stream.FixedDelay{Delay: cfg.Stream.ReconnectDelay}
	if cfg.Stream.Backoff {
		retry = stream.Backoff{Base: cfg.Stream.ReconnectDelay, Jitter: 0.2}
	}
	streamURL := remote.StreamURL(cfg.APIURL, cfg.Stream.Path)
	dashboard := view.NewDashboard(func(onChange func()) *stream.Client {
		return stream.NewClient(stream.Options{
			URL:      streamURL,
			Dialer:   stream.WebsocketDialer{Token: cfg.APIToken},
			Policy:   retry,
			Location: loc,
			OnChange: onChange,
		})
	}, loc)
	releaseDashboard := dashboard.Acquire(context.Background())

	if err := collection.Refresh(context.Background()); err != nil {
		log.Println("Warning: initial post fetch failed, will retry on demand", err)
	}

	// cron jobs
	resyncJob := job.NewResyncJob(collection)
	c := cron.New()
	if err := resyncJob.Schedule(c, cfg.ResyncInterval); err != nil {
		log.Fatalf("Invalid RESYNC_INTERVAL %q: %v", cfg.ResyncInterval, err)
	}
	c.Start()

	app := api.NewApp(api.Deps{
		Config:     *cfg,
		Dashboard:  dashboard,
		Scheduler:  scheduler,
		Collection: collection,
		History:    history,
		RequestLog: true,
	})

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s (stream %s)", cfg.ListenAddr, streamURL)

	gracefulShutdown(app, func() {
		c.Stop()
		releaseDashboard()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := scheduler.Shutdown(ctx); err != nil {
			log.Printf("Pending reschedules did not settle: %v", err)
		}
		closeDB(db)
	})
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	cleanup()
	log.Println("Server shutdown complete.")
}
