package view

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/activity"
	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/stream"
)

// StreamFactory builds a fresh stream client. A closed client cannot be
// reopened, so every new scope gets its own.
type StreamFactory func(onChange func()) *stream.Client

// Dashboard scopes the event stream to its viewers: the socket exists only
// while at least one scope is held.
type Dashboard struct {
	newClient StreamFactory
	loc       *time.Location

	mu      sync.Mutex
	refs    int
	client  *stream.Client
	changed chan struct{}
}

func NewDashboard(factory StreamFactory, loc *time.Location) *Dashboard {
	if loc == nil {
		loc = time.Local
	}
	return &Dashboard{newClient: factory, loc: loc, changed: make(chan struct{})}
}

// Acquire opens a scope, connecting the stream if it is the first one. The
// returned release is safe to call more than once.
func (d *Dashboard) Acquire(ctx context.Context) (release func()) {
	d.mu.Lock()
	d.refs++
	if d.client == nil {
		d.client = d.newClient(d.broadcast)
		d.client.Connect(ctx)
	}
	d.mu.Unlock()

	var once sync.Once
	return func() { once.Do(d.release) }
}

func (d *Dashboard) release() {
	d.mu.Lock()
	d.refs--
	var client *stream.Client
	if d.refs == 0 {
		client, d.client = d.client, nil
	}
	d.mu.Unlock()

	if client != nil {
		client.Close()
		d.broadcast()
	}
}

func (d *Dashboard) broadcast() {
	d.mu.Lock()
	close(d.changed)
	d.changed = make(chan struct{})
	d.mu.Unlock()
}

// Changed returns a channel closed on the next state or activity change.
func (d *Dashboard) Changed() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.changed
}

func (d *Dashboard) current() *stream.Client {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client
}

func (d *Dashboard) State() models.ConnectionState {
	if c := d.current(); c != nil {
		return c.State()
	}
	return models.ConnectionDisconnected
}

// Activity projects the buffered stream events into the display list.
func (d *Dashboard) Activity() []models.Activity {
	var events []models.StatusEvent
	if c := d.current(); c != nil {
		events = c.Events()
	}
	return activity.Project(events, d.loc)
}

func (d *Dashboard) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refs > 0
}
