package transfer

type DropRequest struct {
	ItemID string `json:"item_id"`
	Target string `json:"target"`
}

type DropResponse struct {
	Status  string `json:"status"`
	TraceID string `json:"trace_id,omitempty"`
}

type ScheduleRequest struct {
	ScheduledAt string `json:"scheduled_at"`
}
