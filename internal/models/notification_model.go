package models

import "time"

const (
	NotificationSuccess = "success"
	NotificationError   = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ItemID    string    `json:"item_id,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
