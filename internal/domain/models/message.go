package models

import "time"

// Message is immutable once stored. ID and Timestamp are assigned by the
// database at insert time.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    string    `json:"room_id" db:"room_id"`
	Sender    Role      `json:"sender" db:"sender"`
	Content   string    `json:"content" db:"content"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
