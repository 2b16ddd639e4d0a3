package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"live_portal/internal/domain"
	"live_portal/pkg/logger"
)

type AnalyticsRepository interface {
	LogViewerCount(ctx context.Context, viewers int) error
	TotalWatchTime(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewAnalyticsRepository(db *pgxpool.Pool, log logger.Logger) AnalyticsRepository {
	return &analyticsRepository{db: db, log: log}
}

func (r *analyticsRepository) LogViewerCount(ctx context.Context, viewers int) error {
	query := `INSERT INTO analytics (timestamp, viewers, type) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, time.Now(), viewers, domain.SampleTypeHourly)
	if err != nil {
		r.log.Error("Failed to log viewer count", "error", err, "viewers", viewers)
	}
	return err
}

func (r *analyticsRepository) TotalWatchTime(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(viewers), 0) FROM analytics WHERE type = $1`

	var total int64
	err := r.db.QueryRow(ctx, query, domain.SampleTypeHourly).Scan(&total)
	if err != nil {
		r.log.Error("Failed to sum watch time", "error", err)
		return 0, err
	}
	return total, nil
}
