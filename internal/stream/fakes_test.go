package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var errDropped = errors.New("connection dropped")

type fakeConn struct {
	frames chan []byte
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 64), done: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.frames:
		return websocket.TextMessage, data, nil
	case <-c.done:
		return 0, nil, errDropped
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) send(frames ...string) {
	for _, f := range frames {
		c.frames <- []byte(f)
	}
}

// fakeDialer hands out connections in order; when it runs out it fails dials.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	errs  []error
	dials int
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d.conns) == 0 {
		return nil, errors.New("no more connections")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}
