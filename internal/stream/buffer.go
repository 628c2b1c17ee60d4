package stream

import "github.com/maheshrc27/scheduling-dashboard/internal/models"

// BufferCapacity bounds the recent-event buffer.
const BufferCapacity = 10

// Buffer keeps the most recent events in a fixed ring, oldest evicted first.
type Buffer struct {
	events [BufferCapacity]models.StatusEvent
	head   int // next write position
	size   int
}

func (b *Buffer) Push(e models.StatusEvent) {
	b.events[b.head] = e
	b.head = (b.head + 1) % BufferCapacity
	if b.size < BufferCapacity {
		b.size++
	}
}

func (b *Buffer) Len() int {
	return b.size
}

// Newest returns the buffered events, newest first.
func (b *Buffer) Newest() []models.StatusEvent {
	out := make([]models.StatusEvent, b.size)
	for i := 0; i < b.size; i++ {
		idx := (b.head - 1 - i + BufferCapacity) % BufferCapacity
		out[i] = b.events[idx]
	}
	return out
}
