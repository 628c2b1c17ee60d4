package calendar

import (
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

// Bucket groups posts by the local date of their scheduled instant, keeping
// collection order inside each day. Posts without an instant are left out.
func Bucket(posts []models.Post, loc *time.Location) map[string][]models.Post {
	buckets := make(map[string][]models.Post)
	for _, p := range posts {
		if p.ScheduledAt == nil {
			continue
		}
		key := utils.DateKey(*p.ScheduledAt, loc)
		buckets[key] = append(buckets[key], p)
	}
	return buckets
}

// Unscheduled returns the posts Bucket leaves out.
func Unscheduled(posts []models.Post) []models.Post {
	out := []models.Post{}
	for _, p := range posts {
		if p.ScheduledAt == nil {
			out = append(out, p)
		}
	}
	return out
}
