package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
	"github.com/maheshrc27/scheduling-dashboard/internal/reschedule"
	"github.com/maheshrc27/scheduling-dashboard/pkg/utils"
)

var (
	ErrUnknownItem   = errors.New("unknown post")
	ErrInvalidTarget = reschedule.ErrInvalidTarget
	ErrNoScheduler   = errors.New("calendar has no scheduler")
)

// Source is the shared post collection the grid is built from.
type Source interface {
	Posts(ctx context.Context) ([]models.Post, error)
}

// Scheduler accepts reschedule hand-offs from drops.
type Scheduler interface {
	Submit(ctx context.Context, post models.Post, targetKey string) (*reschedule.Ticket, error)
	Pending() map[string]reschedule.PendingMove
}

// DropEvent is a post released over a day cell. Target is empty when the post
// was released outside every cell.
type DropEvent struct {
	ItemID string
	Target string
}

type MonthView struct {
	Month     string `json:"month"`
	Label     string `json:"label"`
	WeekStart string `json:"week_start"`
	Days      []Day  `json:"days"`
}

type Options struct {
	Source    Source
	Scheduler Scheduler
	Location  *time.Location
	WeekStart time.Weekday
	Now       func() time.Time
}

// Engine owns the viewing month and turns drops into reschedule requests.
type Engine struct {
	source    Source
	scheduler Scheduler
	loc       *time.Location
	weekStart time.Weekday
	now       func() time.Time

	mu    sync.Mutex
	month time.Time
}

func NewEngine(opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		source:    opts.Source,
		scheduler: opts.Scheduler,
		loc:       opts.Location,
		weekStart: opts.WeekStart,
		now:       opts.Now,
		month:     MonthStart(opts.Now(), opts.Location),
	}
}

func (e *Engine) Month() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.month
}

func (e *Engine) Next() time.Time {
	return e.shift(1)
}

func (e *Engine) Previous() time.Time {
	return e.shift(-1)
}

func (e *Engine) Goto(month time.Time) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.month = MonthStart(month, e.loc)
	return e.month
}

func (e *Engine) shift(months int) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.month = e.month.AddDate(0, months, 0)
	return e.month
}

// Grid renders the viewing month from the current cache contents.
func (e *Engine) Grid(ctx context.Context) (*MonthView, error) {
	return e.GridFor(ctx, e.Month())
}

// GridFor renders month without moving the viewing month.
func (e *Engine) GridFor(ctx context.Context, month time.Time) (*MonthView, error) {
	posts, err := e.source.Posts(ctx)
	if err != nil {
		return nil, err
	}

	var pending map[string]reschedule.PendingMove
	if e.scheduler != nil {
		pending = e.scheduler.Pending()
	}

	cards := make(map[string][]Card)
	for key, day := range Bucket(posts, e.loc) {
		for _, p := range day {
			if _, moving := pending[p.ID]; moving {
				continue
			}
			cards[key] = append(cards[key], newCard(p, e.loc))
		}
	}
	// pending moves render in their target cell on top of the cached buckets
	for _, p := range posts {
		move, ok := pending[p.ID]
		if !ok {
			continue
		}
		card := newCard(p, e.loc)
		at := move.ScheduledAt
		card.ScheduledAt = &at
		card.Time = at.In(e.loc).Format("15:04")
		card.Pending = !move.Confirmed
		card.TraceID = move.TraceID
		cards[move.TargetKey] = append(cards[move.TargetKey], card)
	}

	days := MonthGrid(month, e.weekStart, e.loc, e.now())
	for i := range days {
		days[i].Cards = cards[days[i].Key]
		if days[i].Cards == nil {
			days[i].Cards = []Card{}
		}
	}

	month = MonthStart(month, e.loc)
	return &MonthView{
		Month:     month.Format("2006-01"),
		Label:     month.Format("January 2006"),
		WeekStart: e.weekStart.String(),
		Days:      days,
	}, nil
}

// Unscheduled lists the cached posts that have no scheduled instant.
func (e *Engine) Unscheduled(ctx context.Context) ([]models.Post, error) {
	posts, err := e.source.Posts(ctx)
	if err != nil {
		return nil, err
	}
	return Unscheduled(posts), nil
}

// Drop hands a post moved to another day to the scheduler. A nil ticket with a
// nil error means there was nothing to do.
func (e *Engine) Drop(ctx context.Context, ev DropEvent) (*reschedule.Ticket, error) {
	if ev.Target == "" {
		return nil, nil
	}
	if _, err := utils.ParseDateKey(ev.Target, e.loc); err != nil {
		return nil, ErrInvalidTarget
	}

	posts, err := e.source.Posts(ctx)
	if err != nil {
		return nil, err
	}
	post, ok := findPost(posts, ev.ItemID)
	if !ok {
		return nil, ErrUnknownItem
	}

	if ev.Target == e.currentKey(post) {
		return nil, nil
	}
	if e.scheduler == nil {
		return nil, ErrNoScheduler
	}
	return e.scheduler.Submit(ctx, post, ev.Target)
}

// currentKey is the cell the post is rendered in right now.
func (e *Engine) currentKey(p models.Post) string {
	if e.scheduler != nil {
		if move, ok := e.scheduler.Pending()[p.ID]; ok {
			return move.TargetKey
		}
	}
	if p.ScheduledAt == nil {
		return ""
	}
	return utils.DateKey(*p.ScheduledAt, e.loc)
}

func findPost(posts []models.Post, id string) (models.Post, bool) {
	for _, p := range posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
