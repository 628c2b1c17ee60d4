package calendar

import (
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
)

// Card is the display form of a post inside a day cell.
type Card struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Platform    string     `json:"platform"`
	Status      string     `json:"status"`
	MediaURL    string     `json:"media_url,omitempty"`
	MediaKind   string     `json:"media_kind,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Time        string     `json:"time"`
	Pending     bool       `json:"pending,omitempty"`
	TraceID     string     `json:"trace_id,omitempty"`
}

func newCard(p models.Post, loc *time.Location) Card {
	card := Card{
		ID:          p.ID,
		Content:     p.Content,
		Platform:    p.Platform,
		Status:      p.Status,
		MediaURL:    p.MediaURL,
		MediaKind:   p.MediaKind(),
		ScheduledAt: p.ScheduledAt,
	}
	if p.ScheduledAt != nil {
		card.Time = p.ScheduledAt.In(loc).Format("15:04")
	}
	return card
}
