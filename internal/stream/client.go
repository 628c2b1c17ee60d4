package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
)

type Options struct {
	URL      string
	Dialer   Dialer
	Policy   RetryPolicy
	Location *time.Location
	// OnChange runs on the client's reader goroutine after every state or
	// buffer change. It never runs after Close returns.
	OnChange func()
}

// Client owns at most one live socket to the automation log stream and
// reconnects according to its RetryPolicy for as long as it is open.
type Client struct {
	url      string
	dialer   Dialer
	policy   RetryPolicy
	loc      *time.Location
	onChange func()

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	state   models.ConnectionState
	active  bool // dial pending or socket open
	conn    Conn
	timer   *time.Timer
	timerID uint64 // identifies the one timer allowed to reconnect
	attempt int
	closed  bool
	buf     Buffer
	lastID  uint64

	wg sync.WaitGroup
}

func NewClient(opts Options) *Client {
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{}
	}
	if opts.Policy == nil {
		opts.Policy = FixedDelay{Delay: DefaultReconnectDelay}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Client{
		url:      opts.URL,
		dialer:   opts.Dialer,
		policy:   opts.Policy,
		loc:      opts.Location,
		onChange: opts.OnChange,
		state:    models.ConnectionDisconnected,
	}
}

// Connect starts the connection lifecycle. Calls while a dial is pending or a
// socket is open, and calls after Close, do nothing. ctx bounds the whole
// lifecycle, not just the first dial.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.active {
		return
	}
	if c.ctx == nil {
		c.ctx, c.cancel = context.WithCancel(ctx)
	}
	c.startLocked()
}

func (c *Client) startLocked() {
	c.active = true
	c.state = models.ConnectionConnecting
	// a Connect during the reconnect delay supersedes the pending timer
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerID++
	c.wg.Add(1)
	go c.run(c.ctx)
}

func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()
	c.notify()

	conn, err := c.dialer.Dial(ctx, c.url)
	if err != nil {
		slog.Warn("event stream dial failed", "url", c.url, "error", err)
		c.dropped()
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = models.ConnectionConnected
	c.attempt = 0
	c.mu.Unlock()

	slog.Info("event stream connected", "url", c.url)
	c.notify()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// read errors and closes take the same path: force the socket shut
			// and let dropped schedule the reconnection
			slog.Info("event stream closed", "error", err)
			break
		}
		c.accept(data)
	}
	conn.Close()
	c.dropped()
}

func (c *Client) accept(data []byte) {
	event, err := Decode(data, c.loc)
	if err != nil {
		slog.Debug("dropping stream frame", "error", err)
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.lastID++
	event.ID = c.lastID
	c.buf.Push(event)
	c.mu.Unlock()

	c.notify()
}

func (c *Client) dropped() {
	c.mu.Lock()
	c.conn = nil
	c.active = false
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = models.ConnectionDisconnected
	c.attempt++
	attempt := c.attempt

	retry := c.ctx.Err() == nil && c.policy.ShouldRetry(attempt)
	var delay time.Duration
	if retry {
		delay = c.policy.NextDelay(attempt)
		c.timerID++
		id := c.timerID
		c.timer = time.AfterFunc(delay, func() { c.reconnect(id) })
	}
	c.mu.Unlock()

	if retry {
		slog.Info("event stream reconnect scheduled", "attempt", attempt, "delay", delay)
	} else {
		slog.Warn("event stream giving up", "attempt", attempt)
	}
	c.notify()
}

func (c *Client) reconnect(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// a timer that fired while being stopped must not start a second chain
	if c.closed || c.active || id != c.timerID {
		return
	}
	c.startLocked()
}

// Close tears the client down: the socket is closed, any pending reconnection
// is cancelled, and no callback fires once Close returns.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerID++
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	c.state = models.ConnectionDisconnected
	c.mu.Unlock()

	if conn != nil {
		// unblocks the reader; it may race the reader's own Close
		conn.Close()
	}
	c.wg.Wait()
	slog.Info("event stream shut down", "url", c.url)
	return nil
}

func (c *Client) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Client) State() models.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events returns the buffered events, newest first.
func (c *Client) Events() []models.StatusEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Newest()
}

// Last returns the most recently accepted event.
func (c *Client) Last() (models.StatusEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf.Len() == 0 {
		return models.StatusEvent{}, false
	}
	return c.buf.Newest()[0], true
}
