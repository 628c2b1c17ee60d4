package reschedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/remote"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	MessageSuccess = "Post rescheduled successfully"
	MessageFailure = "Failed to reschedule post"
)

// Invalidator refetches the shared post collection after a confirmed change.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Notifier interface {
	Success(message, itemID, traceID string) models.Notification
	Error(message, itemID, traceID string) models.Notification
}

// HistoryRecorder stores one row per attempt. Failures are logged only.
type HistoryRecorder interface {
	Create(ctx context.Context, ra *models.RescheduleAttempt) (int64, error)
}

type Options struct {
	Remote   remote.Rescheduler
	Cache    Invalidator
	Notifier Notifier
	History  HistoryRecorder
	Policy   TimePolicy
	Location *time.Location
	// Optimistic renders a pending move before the server confirms it.
	Optimistic bool
}

// Outcome is the settled result of one reschedule attempt.
type Outcome struct {
	ItemID      string
	TraceID     string
	TargetKey   string
	ScheduledAt time.Time
	// Post is the server's updated copy when it returned one.
	Post *models.Post
	Err  error
	// Stale marks a response superseded by a newer attempt on the same post.
	Stale bool
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Ticket tracks a submitted reschedule.
type Ticket struct {
	TraceID     string
	ItemID      string
	TargetKey   string
	ScheduledAt time.Time
	RequestedBy string

	done    chan struct{}
	outcome Outcome
}

// Done is closed once the outcome is known.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the outcome is known or ctx ends.
func (t *Ticket) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Outcome returns the settled outcome. It is only meaningful after Done.
func (t *Ticket) Outcome() Outcome {
	<-t.done
	return t.outcome
}

// Coordinator issues reschedule mutations against the remote authority and
// keeps the cache consistent with their results.
type Coordinator struct {
	remote   remote.Rescheduler
	cache    Invalidator
	notifier Notifier
	history  HistoryRecorder
	policy   TimePolicy
	loc      *time.Location
	overlay  *Overlay

	mu  sync.Mutex
	seq map[string]uint64

	wg sync.WaitGroup
}

func NewCoordinator(opts Options) *Coordinator {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Policy == "" {
		opts.Policy = PreserveTime
	}
	c := &Coordinator{
		remote:   opts.Remote,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		history:  opts.History,
		policy:   opts.Policy,
		loc:      opts.Location,
		seq:      make(map[string]uint64),
	}
	if opts.Optimistic {
		c.overlay = NewOverlay()
	}
	return c
}

// Submit starts a reschedule of post onto targetKey and returns without
// waiting for the server.
func (c *Coordinator) Submit(ctx context.Context, post models.Post, targetKey string) (*Ticket, error) {
	at, err := c.policy.Apply(post.ScheduledAt, targetKey, c.loc)
	if err != nil {
		return nil, err
	}

	traceID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.seq[post.ID]++
	seq := c.seq[post.ID]
	c.mu.Unlock()

	ticket := &Ticket{
		TraceID:     traceID,
		ItemID:      post.ID,
		TargetKey:   targetKey,
		ScheduledAt: at,
		RequestedBy: Requester(ctx),
		done:        make(chan struct{}),
	}
	if c.overlay != nil {
		c.overlay.Put(PendingMove{ItemID: post.ID, TargetKey: targetKey, ScheduledAt: at, TraceID: traceID})
	}

	slog.Info("reschedule submitted", "post_id", post.ID, "target", targetKey, "trace_id", traceID, "user_id", ticket.RequestedBy)

	// the mutation outlives the request that started it
	runCtx := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticket.outcome = c.run(runCtx, post, ticket, seq)
		close(ticket.done)
	}()
	return ticket, nil
}

// Reschedule is the blocking form of Submit.
func (c *Coordinator) Reschedule(ctx context.Context, post models.Post, targetKey string) (Outcome, error) {
	ticket, err := c.Submit(ctx, post, targetKey)
	if err != nil {
		return Outcome{}, err
	}
	return ticket.Wait(ctx)
}

func (c *Coordinator) run(ctx context.Context, post models.Post, t *Ticket, seq uint64) Outcome {
	outcome := Outcome{
		ItemID:      post.ID,
		TraceID:     t.TraceID,
		TargetKey:   t.TargetKey,
		ScheduledAt: t.ScheduledAt,
	}
	outcome.Post, outcome.Err = c.remote.Reschedule(ctx, post.ID, t.ScheduledAt, t.TraceID)
	outcome.Stale = !c.isLatest(post.ID, seq)

	c.record(ctx, post, t.RequestedBy, outcome)

	if outcome.Err != nil {
		if c.overlay != nil {
			c.overlay.Clear(post.ID, t.TraceID)
		}
		if outcome.Stale {
			slog.Info("ignoring stale reschedule failure", "post_id", post.ID, "trace_id", t.TraceID, "error", outcome.Err)
			return outcome
		}
		slog.Warn("reschedule failed", "post_id", post.ID, "trace_id", t.TraceID, "error", outcome.Err)
		c.notifyError(post.ID, t.TraceID)
		return outcome
	}

	// the server changed even when a newer attempt is in flight
	refetched := true
	if c.cache != nil {
		if err := c.cache.Invalidate(ctx); err != nil {
			refetched = false
			slog.Warn("post collection refetch after reschedule failed", "trace_id", t.TraceID, "error", err)
		}
	}
	if c.overlay != nil {
		if refetched {
			c.overlay.Clear(post.ID, t.TraceID)
		} else {
			// keep showing the confirmed move until a later refresh lands
			c.overlay.Confirm(post.ID, t.TraceID)
		}
	}
	if outcome.Stale {
		slog.Info("stale reschedule succeeded", "post_id", post.ID, "trace_id", t.TraceID)
		return outcome
	}

	slog.Info("reschedule succeeded", "post_id", post.ID, "target", t.TargetKey, "trace_id", t.TraceID)
	if c.notifier != nil {
		c.notifier.Success(MessageSuccess, post.ID, t.TraceID)
	}
	return outcome
}

func (c *Coordinator) notifyError(itemID, traceID string) {
	if c.notifier != nil {
		c.notifier.Error(MessageFailure, itemID, traceID)
	}
}

func (c *Coordinator) isLatest(itemID string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq[itemID] == seq
}

func (c *Coordinator) record(ctx context.Context, post models.Post, requestedBy string, o Outcome) {
	if c.history == nil {
		return
	}
	attempt := &models.RescheduleAttempt{
		TraceID:     o.TraceID,
		ItemID:      o.ItemID,
		RequestedBy: requestedBy,
		ToDate:      o.TargetKey,
		ScheduledAt: o.ScheduledAt,
		Succeeded:   o.Err == nil,
	}
	if post.ScheduledAt != nil {
		attempt.FromDate = utils.DateKey(*post.ScheduledAt, c.loc)
	}
	if o.Err != nil {
		attempt.ErrorMessage = errorMessage(o.Err)
	}
	if _, err := c.history.Create(ctx, attempt); err != nil {
		slog.Warn("failed to record reschedule attempt", "trace_id", o.TraceID, "error", err)
	}
}

func errorMessage(err error) string {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}

// Pending returns the in-flight moves when optimistic rendering is enabled.
func (c *Coordinator) Pending() map[string]PendingMove {
	if c.overlay == nil {
		return nil
	}
	return c.overlay.Moves()
}

// Refreshed drops confirmed moves once the post collection has been reloaded.
func (c *Coordinator) Refreshed() {
	if c.overlay != nil {
		c.overlay.ClearConfirmed()
	}
}

// Wait blocks until every submitted reschedule has settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
