package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"live_portal/internal/domain"
	"live_portal/pkg/logger"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	RecentMessages(ctx context.Context, limit int) ([]*domain.ChatMessage, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	query := `
		INSERT INTO messages (user_id, message, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		message.UserID, message.Message, message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "user_id", message.UserID)
		return err
	}

	return nil
}

func (r *chatRepository) RecentMessages(ctx context.Context, limit int) ([]*domain.ChatMessage, error) {
	query := `
		SELECT m.id, m.user_id, u.username, m.message, m.created_at
		FROM messages m
		JOIN users u ON m.user_id = u.id
		ORDER BY m.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to get messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		m := &domain.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Message, &m.CreatedAt); err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
