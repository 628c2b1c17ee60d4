package view

import (
	"context"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/cache"
	"github.com/maheshrc27/scheduling-dashboard/internal/calendar"
	"github.com/maheshrc27/scheduling-dashboard/internal/notify"
	"github.com/maheshrc27/scheduling-dashboard/internal/remote"
	"github.com/maheshrc27/scheduling-dashboard/internal/reschedule"
)

type SchedulerOptions struct {
	Collection    *cache.Collection
	Rescheduler   remote.Rescheduler
	Notifications *notify.Center
	History       reschedule.HistoryRecorder
	Policy        reschedule.TimePolicy
	Optimistic    bool
	Location      *time.Location
	WeekStart     time.Weekday
	Now           func() time.Time
}

// Scheduler is the calendar view: the engine bound to its coordinator over the
// shared post collection.
type Scheduler struct {
	Engine        *calendar.Engine
	Coordinator   *reschedule.Coordinator
	Notifications *notify.Center
}

func NewScheduler(opts SchedulerOptions) *Scheduler {
	if opts.Notifications == nil {
		opts.Notifications = notify.NewCenter(0)
	}
	coord := reschedule.NewCoordinator(reschedule.Options{
		Remote:     opts.Rescheduler,
		Cache:      opts.Collection,
		Notifier:   opts.Notifications,
		History:    opts.History,
		Policy:     opts.Policy,
		Location:   opts.Location,
		Optimistic: opts.Optimistic,
	})
	opts.Collection.OnRefresh(coord.Refreshed)
	engine := calendar.NewEngine(calendar.Options{
		Source:    opts.Collection,
		Scheduler: coord,
		Location:  opts.Location,
		WeekStart: opts.WeekStart,
		Now:       opts.Now,
	})
	return &Scheduler{Engine: engine, Coordinator: coord, Notifications: opts.Notifications}
}

// Shutdown waits for in-flight reschedules to settle or ctx to end.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.Coordinator.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
