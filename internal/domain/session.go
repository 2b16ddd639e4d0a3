package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionState describes the single process-wide broadcast. It is never
// persisted; a restart resets it to inactive defaults.
type SessionState struct {
	Active     bool       `json:"active"`
	StreamType string     `json:"stream_type"`
	VideoPath  string     `json:"video_path,omitempty"`
	Viewers    int        `json:"viewers"`
	TotalViews int        `json:"total_views"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	Uptime     int64      `json:"uptime"`
}

// ConnectedViewer is a client currently inside the live room.
type ConnectedViewer struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

const (
	StreamTypeNone   = "none"
	StreamTypeWebcam = "webcam"
	StreamTypeVideo  = "video"
)
