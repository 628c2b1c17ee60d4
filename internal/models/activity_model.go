package models

type ActivityType string

const (
	ActivitySuccess ActivityType = "success"
	ActivityWarning ActivityType = "warning"
	ActivityError   ActivityType = "error"
)

type Activity struct {
	ID      uint64       `json:"id"`
	Type    ActivityType `json:"type"`
	Action  string       `json:"action"`
	Target  string       `json:"target"`
	Time    string       `json:"time"`
	TraceID string       `json:"traceId"`
}
