package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/remote"
)

// Collection is the cached post collection. Its only writer is Refresh, reached
// through Invalidate after a confirmed mutation or through the periodic resync.
type Collection struct {
	lister remote.ItemLister

	mu        sync.RWMutex
	posts     []models.Post
	loaded    bool
	version   uint64
	fetchedAt time.Time

	// serializes fetches so concurrent invalidations collapse into ordered refreshes
	fetchMu sync.Mutex

	listeners []func()
}

func NewCollection(lister remote.ItemLister) *Collection {
	return &Collection{lister: lister}
}

// Posts returns the cached collection, fetching it on first use.
func (c *Collection) Posts(ctx context.Context) ([]models.Post, error) {
	c.mu.RLock()
	if c.loaded {
		posts := c.copyLocked()
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// Snapshot returns the current cached posts without fetching.
func (c *Collection) Snapshot() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

func (c *Collection) copyLocked() []models.Post {
	posts := make([]models.Post, len(c.posts))
	copy(posts, c.posts)
	return posts
}

// Find looks a post up by id in the cached snapshot.
func (c *Collection) Find(id string) (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// Invalidate marks the cache stale and refetches it from the remote authority.
func (c *Collection) Invalidate(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh replaces the cache with a fresh fetch. On failure the previous
// snapshot is kept.
func (c *Collection) Refresh(ctx context.Context) error {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	posts, err := c.lister.ListPosts(ctx)
	if err != nil {
		slog.Warn("post collection refresh failed", "error", err)
		return err
	}

	c.mu.Lock()
	c.posts = posts
	c.loaded = true
	c.version++
	c.fetchedAt = time.Now()
	version := c.version
	listeners := c.listeners
	c.mu.Unlock()

	slog.Info("post collection refreshed", "posts", len(posts), "version", version)
	for _, fn := range listeners {
		fn()
	}
	return nil
}

// OnRefresh registers fn to run after every successful refresh.
func (c *Collection) OnRefresh(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Version increases by one on every successful refresh.
func (c *Collection) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *Collection) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
