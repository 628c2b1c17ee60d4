package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const DefaultCapacity = 20

// Center keeps the most recent user-facing notifications, newest first.
type Center struct {
	mu       sync.Mutex
	capacity int
	items    []models.Notification
	now      func() time.Time
}

func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{capacity: capacity, now: time.Now}
}

func (c *Center) Success(message, itemID, traceID string) models.Notification {
	return c.push(models.NotificationSuccess, message, itemID, traceID)
}

func (c *Center) Error(message, itemID, traceID string) models.Notification {
	return c.push(models.NotificationError, message, itemID, traceID)
}

func (c *Center) push(kind, message, itemID, traceID string) models.Notification {
	id, err := gonanoid.New()
	if err != nil {
		slog.Warn("failed to generate notification id", "error", err)
	}
	n := models.Notification{
		ID:        id,
		Kind:      kind,
		Message:   message,
		ItemID:    itemID,
		TraceID:   traceID,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.items = append([]models.Notification{n}, c.items...)
	if len(c.items) > c.capacity {
		c.items = c.items[:c.capacity]
	}
	c.mu.Unlock()
	return n
}

// List returns the notifications, newest first.
func (c *Center) List() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes one notification. It reports whether the id was present.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
