package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"live_portal/internal/domain"
	apperrors "live_portal/pkg/errors"
	"live_portal/pkg/logger"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, log logger.Logger) NotificationRepository {
	return &notificationRepository{db: db, log: log}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID, notification.UserID, notification.Message,
		notification.IsRead, notification.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create notification", "error", err, "user_id", notification.UserID)
	}
	return err
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `SELECT id, user_id, message, is_read, created_at FROM notifications WHERE id = $1`

	n := &domain.Notification{}
	err := r.db.QueryRow(ctx, query, id).Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get notification", "error", err, "notification_id", id)
		return nil, err
	}

	return n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list notifications", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			r.log.Error("Failed to scan notification", "error", err)
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark notification read", "error", err, "notification_id", id)
	}
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete notification", "error", err, "notification_id", id)
	}
	return err
}
