package models

import "github.com/ayakimenko/taskbell/internal/clock"

// UserSettings holds the per-user daily reminder configuration.
// At most one row per user.
type UserSettings struct {
	UserID     int64           `json:"user_id"`
	RemindTime clock.TimeOfDay `json:"remind_time"`
}
