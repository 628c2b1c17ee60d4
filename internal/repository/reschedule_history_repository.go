package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/scheduling-dashboard/internal/models"
)

const DefaultHistoryLimit = 50

type RescheduleHistoryRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, ra *models.RescheduleAttempt) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.RescheduleAttempt, error)
	ListByItemID(ctx context.Context, itemID string) ([]*models.RescheduleAttempt, error)
}

type rescheduleHistoryRepository struct {
	db *sql.DB
}

func NewRescheduleHistoryRepository(db *sql.DB) RescheduleHistoryRepository {
	return &rescheduleHistoryRepository{db: db}
}

func (r *rescheduleHistoryRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS reschedule_history (
			id BIGSERIAL PRIMARY KEY,
			trace_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			requested_by TEXT NOT NULL DEFAULT '',
			from_date TEXT NOT NULL DEFAULT '',
			to_date TEXT NOT NULL,
			scheduled_at TIMESTAMPTZ NOT NULL,
			succeeded BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *rescheduleHistoryRepository) Create(ctx context.Context, ra *models.RescheduleAttempt) (int64, error) {
	query := `
		INSERT INTO reschedule_history (trace_id, item_id, requested_by, from_date, to_date, scheduled_at, succeeded, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, ra.TraceID, ra.ItemID, ra.RequestedBy, ra.FromDate, ra.ToDate, ra.ScheduledAt, ra.Succeeded, ra.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *rescheduleHistoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.RescheduleAttempt, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	query := `SELECT id, trace_id, item_id, requested_by, from_date, to_date, scheduled_at, succeeded, error_message, created_at FROM reschedule_history ORDER BY id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *rescheduleHistoryRepository) ListByItemID(ctx context.Context, itemID string) ([]*models.RescheduleAttempt, error) {
	query := `SELECT id, trace_id, item_id, requested_by, from_date, to_date, scheduled_at, succeeded, error_message, created_at FROM reschedule_history WHERE item_id = $1 ORDER BY id DESC`
	return r.list(ctx, query, itemID)
}

func (r *rescheduleHistoryRepository) list(ctx context.Context, query string, args ...any) ([]*models.RescheduleAttempt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var attempts []*models.RescheduleAttempt
	for rows.Next() {
		var ra models.RescheduleAttempt
		err := rows.Scan(&ra.ID, &ra.TraceID, &ra.ItemID, &ra.RequestedBy, &ra.FromDate, &ra.ToDate, &ra.ScheduledAt, &ra.Succeeded, &ra.ErrorMessage, &ra.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		attempts = append(attempts, &ra)
	}
	return attempts, rows.Err()
}
