package models

import "time"

type Severity string

const (
	SeverityOK      Severity = "OK"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// StatusEvent is one normalized message from the automation log stream.
type StatusEvent struct {
	ID        uint64    `json:"id"`
	Action    string    `json:"action"`
	Severity  Severity  `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	TraceID   string    `json:"trace_id,omitempty"`
}

type ConnectionState string

const (
	ConnectionConnecting   ConnectionState = "connecting"
	ConnectionConnected    ConnectionState = "connected"
	ConnectionDisconnected ConnectionState = "disconnected"
)
