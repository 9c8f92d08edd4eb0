package db

import (
	"time"

	"github.com/google/uuid"
)

// Run represents a stored advisor run
type Run struct {
	ID         uuid.UUID `json:"id"`
	TrackID    string    `json:"track_id"`
	TargetTerm string    `json:"target_term"`
	CreatedAt  time.Time `json:"created_at"`
}
