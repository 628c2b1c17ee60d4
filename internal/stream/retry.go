package stream

import (
	"math/rand"
	"time"
)

// RetryPolicy decides when, and whether, the client reconnects after a drop.
// attempt starts at 1 for the first reconnection after a successful session.
type RetryPolicy interface {
	NextDelay(attempt int) time.Duration
	ShouldRetry(attempt int) bool
}

const DefaultReconnectDelay = 5 * time.Second

// FixedDelay reconnects after the same delay forever.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) NextDelay(int) time.Duration {
	if p.Delay <= 0 {
		return DefaultReconnectDelay
	}
	return p.Delay
}

func (p FixedDelay) ShouldRetry(int) bool {
	return true
}

// Backoff doubles the delay per attempt up to Max, with +/- Jitter fraction.
// MaxAttempts of zero means unlimited.
type Backoff struct {
	Base        time.Duration
	Max         time.Duration
	Jitter      float64
	MaxAttempts int
}

func (p Backoff) NextDelay(attempt int) time.Duration {
	base := p.Base
	if base <= 0 {
		base = time.Second
	}
	ceiling := p.Max
	if ceiling < base {
		ceiling = 30 * base
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt && delay < ceiling; i++ {
		delay *= 2
	}
	if delay > ceiling {
		delay = ceiling
	}
	if p.Jitter > 0 {
		spread := float64(delay) * p.Jitter
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

func (p Backoff) ShouldRetry(attempt int) bool {
	return p.MaxAttempts <= 0 || attempt <= p.MaxAttempts
}
