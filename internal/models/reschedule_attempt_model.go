package models

import "time"

type RescheduleAttempt struct {
	ID           int64     `db:"id" json:"id"`
	TraceID      string    `db:"trace_id" json:"trace_id"`
	ItemID       string    `db:"item_id" json:"item_id"`
	RequestedBy  string    `db:"requested_by" json:"requested_by"`
	FromDate     string    `db:"from_date" json:"from_date"`
	ToDate       string    `db:"to_date" json:"to_date"`
	ScheduledAt  time.Time `db:"scheduled_at" json:"scheduled_at"`
	Succeeded    bool      `db:"succeeded" json:"succeeded"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
