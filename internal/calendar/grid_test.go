package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridFebruary2026(t *testing.T) {
	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

	days := MonthGrid(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), time.Sunday, time.UTC, now)
	require.Len(t, days, 28)
	assert.Equal(t, "2026-02-01", days[0].Key)
	assert.Equal(t, "2026-02-28", days[27].Key)

	days = MonthGrid(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), time.Monday, time.UTC, now)
	require.Len(t, days, 35)
	assert.Equal(t, "2026-01-26", days[0].Key)
	assert.False(t, days[0].InMonth)
	assert.Equal(t, "2026-03-01", days[34].Key)

	var today []string
	for _, d := range days {
		if d.IsToday {
			today = append(today, d.Key)
		}
	}
	assert.Equal(t, []string{"2026-02-21"}, today)
}

func TestMonthGridCoversWholeWeeks(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	for _, loc := range []*time.Location{time.UTC, berlin} {
		for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
			for m := 0; m < 36; m++ {
				month := time.Date(2025, time.Month(1+m), 1, 0, 0, 0, 0, loc)
				days := MonthGrid(month, weekStart, loc, month)

				require.Zero(t, len(days)%7, month.Format("2006-01"))
				assert.Equal(t, weekStart, days[0].Date.Weekday())
				assert.Equal(t, (weekStart+6)%7, days[len(days)-1].Date.Weekday())

				inMonth := 0
				for i, d := range days {
					if d.InMonth {
						inMonth++
					}
					if i > 0 {
						assert.Equal(t, days[i-1].Date.AddDate(0, 0, 1), d.Date)
					}
				}
				assert.Equal(t, month.AddDate(0, 1, -1).Day(), inMonth)
			}
		}
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2026-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseMonth("March", time.UTC)
	assert.Error(t, err)
}
