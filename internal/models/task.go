package models

type Task struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Body      string `json:"body"`
	Completed bool   `json:"completed"`
}
