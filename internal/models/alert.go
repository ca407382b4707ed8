package models

import "github.com/ayakimenko/taskbell/internal/clock"

// Alert is a task with a daily trigger time. It fires a notification
// every day when the clock enters its due window, until marked done.
type Alert struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Body        string          `json:"body"`
	TriggerTime clock.TimeOfDay `json:"trigger_time"`
	Completed   bool            `json:"completed"`
}
