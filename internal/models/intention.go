package models

import "time"

type IntentionStatus string

const (
	IntentionPending   IntentionStatus = "pending"
	IntentionCompleted IntentionStatus = "completed"
	IntentionFailed    IntentionStatus = "failed"
)

// DailyIntention is the single goal a user commits to for one calendar day.
// At most one exists per (user, day). Once completed it is never mutated.
type DailyIntention struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Day         string          `json:"day"` // YYYY-MM-DD, the day it governs
	Description string          `json:"description"`
	Status      IntentionStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
