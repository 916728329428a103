package models

import "time"

type QuestStatus string

const (
	QuestPending   QuestStatus = "pending"
	QuestCompleted QuestStatus = "completed"
	// QuestExpired marks a quest whose grace window lapsed. Written once by
	// check-in housekeeping; an expired quest can never complete.
	QuestExpired QuestStatus = "expired"
)

// RecoveryQuest is the remedial task unlocked when an intention fails.
// Exactly one exists per failed intention. Completing it counts the source
// intention's day as resolved.
type RecoveryQuest struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	SourceIntentionID string      `json:"source_intention_id"`
	Day               string      `json:"day"` // the failed intention's day
	Prompt            string      `json:"prompt"`
	Response          string      `json:"response,omitempty"`
	Status            QuestStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
}
