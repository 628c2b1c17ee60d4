package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron"
)

const resyncTimeout = 30 * time.Second

// Refresher reloads the cached post collection from the remote API.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// ResyncJob picks up changes made outside this dashboard, such as posts the
// automation engine published or removed.
type ResyncJob struct {
	r Refresher
}

func NewResyncJob(r Refresher) *ResyncJob {
	return &ResyncJob{r: r}
}

func (j *ResyncJob) Resync() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	if err := j.r.Refresh(ctx); err != nil {
		slog.Info("Unable to resync post collection", "error", err)
	}
}

// Schedule registers the job on c with a cron expression such as "@every 00h01m00s".
func (j *ResyncJob) Schedule(c *cron.Cron, expr string) error {
	return c.AddFunc(expr, j.Resync)
}
