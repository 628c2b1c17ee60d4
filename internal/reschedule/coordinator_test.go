package reschedule

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/notify"
	"github.com/maheshrc27/scheduling-dashboard/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rescheduleCall struct {
	postID  string
	at      time.Time
	traceID string
}

type fakeRemote struct {
	mu    sync.Mutex
	calls []rescheduleCall
	err   error
	// gates holds a call for the keyed target day until its channel yields the error to return
	gates map[string]chan error
}

func (f *fakeRemote) Reschedule(ctx context.Context, postID string, at time.Time, traceID string) (*models.Post, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rescheduleCall{postID: postID, at: at, traceID: traceID})
	err := f.err
	gate := f.gates[at.Format("2006-01-02")]
	f.mu.Unlock()

	if gate != nil {
		err = <-gate
	}
	if err != nil {
		return nil, err
	}
	return &models.Post{ID: postID, ScheduledAt: &at, Status: models.PostStatusScheduled}, nil
}

func (f *fakeRemote) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCache) Invalidate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeCache) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeHistory struct {
	mu       sync.Mutex
	attempts []models.RescheduleAttempt
	err      error
}

func (f *fakeHistory) Create(ctx context.Context, ra *models.RescheduleAttempt) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, *ra)
	return int64(len(f.attempts)), f.err
}

func scheduledPost(id string, at time.Time) models.Post {
	return models.Post{ID: id, Content: "launch", Platform: models.PlatformLinkedIn, Status: models.PostStatusScheduled, ScheduledAt: &at}
}

func newCoordinator(r *fakeRemote, c *fakeCache, n *notify.Center, h HistoryRecorder, optimistic bool) *Coordinator {
	return NewCoordinator(Options{
		Remote:     r,
		Cache:      c,
		Notifier:   n,
		History:    h,
		Location:   time.UTC,
		Optimistic: optimistic,
	})
}

func TestRescheduleSuccessRefetches(t *testing.T) {
	r, c, n, h := &fakeRemote{}, &fakeCache{}, notify.NewCenter(0), &fakeHistory{}
	coord := newCoordinator(r, c, n, h, false)

	post := scheduledPost("7", time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC))
	outcome, err := coord.Reschedule(WithRequester(context.Background(), "user-1"), post, "2026-02-24")
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded())
	assert.False(t, outcome.Stale)
	require.Equal(t, 1, r.count())
	assert.Equal(t, time.Date(2026, 2, 24, 10, 30, 0, 0, time.UTC), r.calls[0].at)
	assert.Equal(t, outcome.TraceID, r.calls[0].traceID)
	assert.Equal(t, 1, c.count())

	list := n.List()
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationSuccess, list[0].Kind)
	assert.Equal(t, MessageSuccess, list[0].Message)

	require.Len(t, h.attempts, 1)
	assert.Equal(t, "2026-02-21", h.attempts[0].FromDate)
	assert.Equal(t, "2026-02-24", h.attempts[0].ToDate)
	assert.Equal(t, "user-1", h.attempts[0].RequestedBy)
	assert.True(t, h.attempts[0].Succeeded)
}

func TestRescheduleFailureLeavesCacheAlone(t *testing.T) {
	r := &fakeRemote{err: &remote.APIError{Status: http.StatusNotFound, Detail: "Post not found"}}
	c, n, h := &fakeCache{}, notify.NewCenter(0), &fakeHistory{}
	coord := newCoordinator(r, c, n, h, false)

	post := scheduledPost("7", time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC))
	outcome, err := coord.Reschedule(context.Background(), post, "2026-02-24")
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded())
	assert.Equal(t, 1, r.count())
	assert.Zero(t, c.count())

	list := n.List()
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationError, list[0].Kind)
	assert.Equal(t, MessageFailure, list[0].Message)

	require.Len(t, h.attempts, 1)
	assert.False(t, h.attempts[0].Succeeded)
	assert.Equal(t, "Post not found", h.attempts[0].ErrorMessage)
}

func TestHistoryFailureDoesNotChangeOutcome(t *testing.T) {
	r, c, n := &fakeRemote{}, &fakeCache{}, notify.NewCenter(0)
	coord := newCoordinator(r, c, n, &fakeHistory{err: errors.New("db down")}, false)

	post := scheduledPost("7", time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC))
	outcome, err := coord.Reschedule(context.Background(), post, "2026-02-24")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, 1, c.count())
}

func TestSubmitRejectsBadTarget(t *testing.T) {
	r := &fakeRemote{}
	coord := newCoordinator(r, &fakeCache{}, notify.NewCenter(0), nil, false)

	_, err := coord.Submit(context.Background(), scheduledPost("7", time.Now()), "not-a-date")
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Zero(t, r.count())
}

func TestSubmitOutlivesRequestContext(t *testing.T) {
	gate := make(chan error)
	r := &fakeRemote{gates: map[string]chan error{"2026-02-24": gate}}
	c := &fakeCache{}
	coord := newCoordinator(r, c, notify.NewCenter(0), nil, false)

	ctx, cancel := context.WithCancel(context.Background())
	ticket, err := coord.Submit(ctx, scheduledPost("7", time.Now()), "2026-02-24")
	require.NoError(t, err)
	cancel()
	gate <- nil

	<-ticket.Done()
	assert.True(t, ticket.Outcome().Succeeded())
	assert.Equal(t, 1, c.count())
}

func TestStaleResponses(t *testing.T) {
	at := time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC)

	t.Run("stale failure is ignored", func(t *testing.T) {
		first, second := make(chan error), make(chan error)
		r := &fakeRemote{gates: map[string]chan error{"2026-02-24": first, "2026-02-25": second}}
		c, n := &fakeCache{}, notify.NewCenter(0)
		coord := newCoordinator(r, c, n, nil, false)

		older, err := coord.Submit(context.Background(), scheduledPost("7", at), "2026-02-24")
		require.NoError(t, err)
		newer, err := coord.Submit(context.Background(), scheduledPost("7", at), "2026-02-25")
		require.NoError(t, err)

		first <- errors.New("timeout")
		<-older.Done()
		assert.True(t, older.Outcome().Stale)
		assert.Empty(t, n.List())

		second <- nil
		<-newer.Done()
		assert.False(t, newer.Outcome().Stale)
		assert.Equal(t, 1, c.count())
		require.Len(t, n.List(), 1)
		assert.Equal(t, models.NotificationSuccess, n.List()[0].Kind)
	})

	t.Run("stale success still refetches silently", func(t *testing.T) {
		first, second := make(chan error), make(chan error)
		r := &fakeRemote{gates: map[string]chan error{"2026-02-24": first, "2026-02-25": second}}
		c, n := &fakeCache{}, notify.NewCenter(0)
		coord := newCoordinator(r, c, n, nil, false)

		older, err := coord.Submit(context.Background(), scheduledPost("7", at), "2026-02-24")
		require.NoError(t, err)
		newer, err := coord.Submit(context.Background(), scheduledPost("7", at), "2026-02-25")
		require.NoError(t, err)

		first <- nil
		<-older.Done()
		assert.True(t, older.Outcome().Stale)
		assert.Equal(t, 1, c.count())
		assert.Empty(t, n.List())

		second <- errors.New("conflict")
		<-newer.Done()
		assert.Equal(t, 1, c.count())
		require.Len(t, n.List(), 1)
		assert.Equal(t, models.NotificationError, n.List()[0].Kind)
	})
}

func TestOptimisticOverlay(t *testing.T) {
	at := time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC)
	gate := make(chan error)
	r := &fakeRemote{gates: map[string]chan error{"2026-02-24": gate}}
	coord := newCoordinator(r, &fakeCache{}, notify.NewCenter(0), nil, true)

	ticket, err := coord.Submit(context.Background(), scheduledPost("7", at), "2026-02-24")
	require.NoError(t, err)

	pending := coord.Pending()
	require.Contains(t, pending, "7")
	assert.Equal(t, "2026-02-24", pending["7"].TargetKey)
	assert.Equal(t, ticket.TraceID, pending["7"].TraceID)

	gate <- errors.New("rejected")
	<-ticket.Done()
	assert.Empty(t, coord.Pending())
}

func TestPendingWithoutOverlay(t *testing.T) {
	coord := newCoordinator(&fakeRemote{}, &fakeCache{}, notify.NewCenter(0), nil, false)
	_, err := coord.Submit(context.Background(), scheduledPost("7", time.Now()), "2026-02-24")
	require.NoError(t, err)
	assert.Nil(t, coord.Pending())
	coord.Wait()
}

func TestOptimisticMoveSurvivesFailedRefetch(t *testing.T) {
	at := time.Date(2026, 2, 21, 10, 30, 0, 0, time.UTC)
	c := &fakeCache{err: errors.New("remote down")}
	n := notify.NewCenter(0)
	coord := newCoordinator(&fakeRemote{}, c, n, nil, true)

	outcome, err := coord.Reschedule(context.Background(), scheduledPost("7", at), "2026-02-24")
	require.NoError(t, err)
	require.True(t, outcome.Succeeded())
	assert.Equal(t, 1, c.count())
	assert.Equal(t, MessageSuccess, n.List()[0].Message)

	pending := coord.Pending()
	require.Contains(t, pending, "7")
	assert.True(t, pending["7"].Confirmed)
	assert.Equal(t, "2026-02-24", pending["7"].TargetKey)

	coord.Refreshed()
	assert.Empty(t, coord.Pending())
}

func TestRefreshedKeepsInFlightMoves(t *testing.T) {
	gate := make(chan error)
	r := &fakeRemote{gates: map[string]chan error{"2026-02-24": gate}}
	coord := newCoordinator(r, &fakeCache{}, notify.NewCenter(0), nil, true)

	ticket, err := coord.Submit(context.Background(), scheduledPost("7", time.Now()), "2026-02-24")
	require.NoError(t, err)

	coord.Refreshed()
	require.Contains(t, coord.Pending(), "7")
	assert.False(t, coord.Pending()["7"].Confirmed)

	gate <- nil
	<-ticket.Done()
	assert.Empty(t, coord.Pending())
}
