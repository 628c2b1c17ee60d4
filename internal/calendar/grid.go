package calendar

import (
	"time"

	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

type Day struct {
	Date    time.Time `json:"date"`
	Key     string    `json:"key"`
	InMonth bool      `json:"in_month"`
	IsToday bool      `json:"is_today"`
	Cards   []Card    `json:"cards"`
}

// MonthGrid lays out every day from the start of the week holding the 1st of
// month through the end of the week holding its last day. The result always
// covers whole weeks.
func MonthGrid(month time.Time, weekStart time.Weekday, loc *time.Location, now time.Time) []Day {
	if loc == nil {
		loc = time.Local
	}
	month = month.In(loc)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -daysSince(first.Weekday(), weekStart))
	end := last.AddDate(0, 0, 6-daysSince(last.Weekday(), weekStart))

	today := utils.DateKey(now, loc)
	var days []Day
	// AddDate keeps wall-clock midnight across DST changes
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(utils.DateKeyLayout)
		days = append(days, Day{
			Date:    d,
			Key:     key,
			InMonth: d.Month() == first.Month(),
			IsToday: key == today,
		})
	}
	return days
}

func daysSince(day, weekStart time.Weekday) int {
	return (int(day) - int(weekStart) + 7) % 7
}

// MonthStart truncates t to the first day of its month in loc.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// ParseMonth reads a YYYY-MM value as the first of that month in loc.
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation("2006-01", value, loc)
}
