package activity

import (
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
)

const (
	MaxEntries = 10

	engineTarget  = "Automation Engine"
	fallbackTrace = "manual-ext"
)

// Baseline is the fixed first entry of every projection.
var Baseline = models.Activity{
	ID:      0,
	Type:    models.ActivitySuccess,
	Action:  "Connected",
	Target:  "Automation Service",
	Time:    "Now",
	TraceID: "sys-001",
}

// Project builds the display list from buffered stream events, which arrive
// newest first. The baseline entry always leads and the list never exceeds
// MaxEntries.
func Project(events []models.StatusEvent, loc *time.Location) []models.Activity {
	if loc == nil {
		loc = time.Local
	}

	out := make([]models.Activity, 0, MaxEntries)
	out = append(out, Baseline)
	for _, e := range events {
		if len(out) == MaxEntries {
			break
		}
		out = append(out, mapEvent(e, loc))
	}
	return out
}

func mapEvent(e models.StatusEvent, loc *time.Location) models.Activity {
	trace := e.TraceID
	if trace == "" {
		trace = fallbackTrace
	}
	return models.Activity{
		ID:      e.ID,
		Type:    activityType(e.Severity),
		Action:  e.Action,
		Target:  engineTarget,
		Time:    e.Timestamp.In(loc).Format("15:04"),
		TraceID: trace,
	}
}

func activityType(s models.Severity) models.ActivityType {
	switch s {
	case models.SeverityWarning:
		return models.ActivityWarning
	case models.SeverityError:
		return models.ActivityError
	default:
		return models.ActivitySuccess
	}
}
