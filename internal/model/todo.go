package model

import "time"

type Todo struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Date       string     `json:"date"` // YYYY-MM-DD
	AlarmTime  *string    `json:"alarm_time"`
	Completed  bool       `json:"completed"`
	UserID     int64      `json:"user_id"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Category struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	UserID int64  `json:"user_id"`
}
