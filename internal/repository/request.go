package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type RequestRepository interface {
	Create(ctx context.Context, request *domain.StreamRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StreamRequest, error)
	LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.StreamRequest, error)
	ListPending(ctx context.Context) ([]*domain.PendingRequest, error)
	ResolveAndNotify(ctx context.Context, requestID uuid.UUID, status string, notification *domain.Notification) error
}

type requestRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRequestRepository(db *pgxpool.Pool, log logger.Logger) RequestRepository {
	return &requestRepository{db: db, log: log}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.StreamRequest) error {
	query := `
		INSERT INTO stream_requests (id, user_id, status, requested_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		request.ID, request.UserID, request.Status, request.RequestedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 on the partial unique index means a concurrent call
		// already created the pending row for this user.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrPendingExists
		}
		r.log.Error("Failed to create stream request", "error", err, "user_id", request.UserID)
		return err
	}

	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StreamRequest, error) {
	query := `SELECT id, user_id, status, requested_at FROM stream_requests WHERE id = $1`

	request := &domain.StreamRequest{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.UserID, &request.Status, &request.RequestedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get stream request", "error", err, "request_id", id)
		return nil, err
	}

	return request, nil
}

func (r *requestRepository) LatestByUser(ctx context.Context, userID uuid.UUID) (*domain.StreamRequest, error) {
	query := `
		SELECT id, user_id, status, requested_at
		FROM stream_requests
		WHERE user_id = $1
		ORDER BY requested_at DESC
		LIMIT 1
	`

	request := &domain.StreamRequest{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&request.ID, &request.UserID, &request.Status, &request.RequestedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get latest request", "error", err, "user_id", userID)
		return nil, err
	}

	return request, nil
}

func (r *requestRepository) ListPending(ctx context.Context) ([]*domain.PendingRequest, error) {
	query := `
		SELECT sr.id, sr.user_id, u.username, u.email, sr.requested_at
		FROM stream_requests sr
		JOIN users u ON sr.user_id = u.id
		WHERE sr.status = $1
		ORDER BY sr.requested_at DESC
	`

	rows, err := r.db.Query(ctx, query, domain.RequestStatusPending)
	if err != nil {
		r.log.Error("Failed to list pending requests", "error", err)
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.PendingRequest
	for rows.Next() {
		req := &domain.PendingRequest{}
		if err := rows.Scan(&req.ID, &req.UserID, &req.Username, &req.Email, &req.RequestedAt); err != nil {
			r.log.Error("Failed to scan pending request", "error", err)
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// ResolveAndNotify applies the status transition and creates the user
// notification in one transaction: a resolved request without its
// notification must never be observable. The guarded UPDATE makes the
// operation race-safe against a concurrent resolve.
func (r *requestRepository) ResolveAndNotify(ctx context.Context, requestID uuid.UUID, status string, notification *domain.Notification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", "error", err)
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE stream_requests SET status = $2 WHERE id = $1 AND status = $3`,
		requestID, status, domain.RequestStatusPending,
	)
	if err != nil {
		r.log.Error("Failed to update request status", "error", err, "request_id", requestID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyResolved
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO notifications (id, user_id, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5)`,
		notification.ID, notification.UserID, notification.Message, notification.IsRead, notification.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create notification", "error", err, "request_id", requestID)
		return err
	}

	return tx.Commit(ctx)
}
