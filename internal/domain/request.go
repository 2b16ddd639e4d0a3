package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamRequest is one viewer's attempt to join the live session.
// Status only ever transitions pending -> accepted|rejected.
type StreamRequest struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// PendingRequest is the admin-facing listing row (request joined with its user).
type PendingRequest struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)
