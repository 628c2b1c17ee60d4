package reschedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

// TimePolicy decides the instant a post lands on when it is moved to a new day.
type TimePolicy string

const (
	// PreserveTime keeps the post's original time of day.
	PreserveTime TimePolicy = "preserve"
	// Midnight moves the post to 00:00 of the target day.
	Midnight TimePolicy = "midnight"
)

var ErrInvalidTarget = errors.New("invalid target date")

func ParseTimePolicy(value string) (TimePolicy, error) {
	switch TimePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PreserveTime:
		return PreserveTime, nil
	case Midnight:
		return Midnight, nil
	}
	return PreserveTime, fmt.Errorf("unknown reschedule time policy %q", value)
}

// Apply computes the new instant on targetKey (YYYY-MM-DD) in loc. Posts without
// a current instant land at midnight under either policy.
func (p TimePolicy) Apply(current *time.Time, targetKey string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := utils.ParseDateKey(targetKey, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if p == Midnight || current == nil {
		return day, nil
	}

	clock := current.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), loc), nil
}
