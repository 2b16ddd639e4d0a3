package domain

import "time"

// AnalyticsSample is a viewer-count snapshot, written on every count
// change and on stream start/stop.
type AnalyticsSample struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Viewers   int       `json:"viewers"`
	Type      string    `json:"type"`
}

const SampleTypeHourly = "hourly"
