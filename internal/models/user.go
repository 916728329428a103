package models

import "time"

// User is a local player profile. The streak fields are the cached output of
// the streak tracker; they must always match a replay of the user's
// resolution history.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Timezone        string    `json:"timezone"` // IANA name, or "Local"
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastResolvedDay *string   `json:"last_resolved_day,omitempty"` // YYYY-MM-DD
	CreatedAt       time.Time `json:"created_at"`
}
