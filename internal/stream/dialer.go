package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the read side of one live socket.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

const (
	handshakeTimeout = 30 * time.Second
	maxFrameSize     = 512 * 1024
)

// WebsocketDialer dials the stream with gorilla/websocket.
type WebsocketDialer struct {
	Token  string
	Header http.Header
}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout

	headers := make(http.Header)
	for k, v := range d.Header {
		headers[k] = v
	}
	if d.Token != "" {
		headers.Set("Authorization", "Bearer "+d.Token)
	}

	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to event stream (status: %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to event stream: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)
	return conn, nil
}
