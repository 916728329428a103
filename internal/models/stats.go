package models

import "math"

// CharacterStats holds a user's RPG progression. All mutations come from the
// progression policy; the engine applies whatever deltas it returns.
type CharacterStats struct {
	UserID     string `json:"user_id"`
	XP         int    `json:"xp"`
	Clarity    int    `json:"clarity"`
	Discipline int    `json:"discipline"`
	Resilience int    `json:"resilience"`
}

// Level derives the user's level from total XP.
func (s CharacterStats) Level() int {
	if s.XP < 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(s.XP)/100))) + 1
}
