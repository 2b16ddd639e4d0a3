package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is append-only; messages are never edited or deleted.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
