package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

var ErrMalformedFrame = errors.New("malformed stream frame")

type frame struct {
	Message   *string         `json:"message"`
	Level     json.RawMessage `json:"level"`
	Timestamp *string         `json:"timestamp"`
	TraceID   json.RawMessage `json:"trace_id"`
}

// Decode validates one inbound frame and maps it to a StatusEvent without an id.
// Zone-less timestamps are read in loc.
func Decode(data []byte, loc *time.Location) (models.StatusEvent, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return models.StatusEvent{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if f.Message == nil {
		return models.StatusEvent{}, fmt.Errorf("%w: missing message", ErrMalformedFrame)
	}
	if f.Timestamp == nil {
		return models.StatusEvent{}, fmt.Errorf("%w: missing timestamp", ErrMalformedFrame)
	}
	ts, err := utils.ParseTimestamp(*f.Timestamp, loc)
	if err != nil {
		return models.StatusEvent{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	return models.StatusEvent{
		Action:    *f.Message,
		Severity:  severity(optionalString(f.Level)),
		Timestamp: ts,
		TraceID:   optionalString(f.TraceID),
	}, nil
}

func severity(level string) models.Severity {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR":
		return models.SeverityError
	case "WARNING", "WARN":
		return models.SeverityWarning
	default:
		return models.SeverityOK
	}
}

// optionalString yields the value of a JSON string, or "" for null or any other type.
func optionalString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
