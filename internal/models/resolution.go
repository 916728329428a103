package models

import "time"

// ResolutionPath is how a day became resolved.
type ResolutionPath string

const (
	PathPerfect         ResolutionPath = "perfect"
	PathActiveRecovery  ResolutionPath = "active_recovery"
	PathPassiveRecovery ResolutionPath = "passive_recovery"
)

// Resolution is the append-only record of one resolved day. The streak
// tracker's cached state is re-derivable by replaying these in day order.
type Resolution struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Day       string         `json:"day"` // YYYY-MM-DD, the day resolved
	Path      ResolutionPath `json:"path"`
	XPAwarded int            `json:"xp_awarded"`
	CreatedAt time.Time      `json:"created_at"`
}
