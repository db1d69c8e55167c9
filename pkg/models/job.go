package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusExpired   = "expired"
)

// Job tracks an async AI analysis. The API returns an analysis_id on
// POST /api/v1/analyze; the client polls GET /api/v1/analyze/{analysisID}
// until the result is delivered. Jobs live only in process memory and are
// removed on the first poll that observes completion.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
