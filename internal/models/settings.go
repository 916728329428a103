package models

// Settings holds app-level configuration stored as key/value rows.
type Settings struct {
	CurrentUserID string `json:"current_user_id"`
}
