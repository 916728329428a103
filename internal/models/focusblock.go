package models

import "time"

type FocusBlockStatus string

const (
	FocusBlockPending   FocusBlockStatus = "pending"
	FocusBlockCompleted FocusBlockStatus = "completed"
)

// FocusBlock is one timed execution sprint inside a daily intention. At most
// one pending block exists per intention at a time, and a block can only be
// completed on the day it was created.
type FocusBlock struct {
	ID          string           `json:"id"`
	IntentionID string           `json:"intention_id"`
	Description string           `json:"description"`
	DurationMin int              `json:"duration_min"`
	Status      FocusBlockStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}
