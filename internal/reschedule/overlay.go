package reschedule

import (
	"sync"
	"time"
)

// PendingMove is an in-flight reschedule rendered ahead of the server's answer.
type PendingMove struct {
	ItemID      string    `json:"item_id"`
	TargetKey   string    `json:"target"`
	ScheduledAt time.Time `json:"scheduled_at"`
	TraceID     string    `json:"trace_id"`

	// Confirmed moves succeeded on the server but the cache has not caught up.
	Confirmed bool `json:"confirmed"`
}

// Overlay holds at most one pending move per post. It never touches the cached
// collection, so clearing an entry restores the previous bucket exactly.
type Overlay struct {
	mu    sync.RWMutex
	moves map[string]PendingMove
}

func NewOverlay() *Overlay {
	return &Overlay{moves: make(map[string]PendingMove)}
}

func (o *Overlay) Put(move PendingMove) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.moves[move.ItemID] = move
}

// Clear drops the entry for itemID if it still belongs to traceID.
func (o *Overlay) Clear(itemID, traceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if move, ok := o.moves[itemID]; ok && move.TraceID == traceID {
		delete(o.moves, itemID)
	}
}

// Confirm keeps the entry for itemID as a confirmed move if it still belongs to
// traceID.
func (o *Overlay) Confirm(itemID, traceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if move, ok := o.moves[itemID]; ok && move.TraceID == traceID {
		move.Confirmed = true
		o.moves[itemID] = move
	}
}

// ClearConfirmed drops every confirmed move once fresh data has arrived.
func (o *Overlay) ClearConfirmed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, move := range o.moves {
		if move.Confirmed {
			delete(o.moves, id)
		}
	}
}

func (o *Overlay) Moves() map[string]PendingMove {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]PendingMove, len(o.moves))
	for id, move := range o.moves {
		out[id] = move
	}
	return out
}
