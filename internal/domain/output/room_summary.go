package output

import "time"

// RoomSummary is the admin overview of one room: who owns it and what was
// said last. The last-message fields are nil for rooms with no messages yet.
type RoomSummary struct {
	ID                   string     `json:"id" db:"id"`
	Username             string     `json:"username" db:"username"`
	LastMessageContent   *string    `json:"last_message_content" db:"last_message_content"`
	LastMessageTimestamp *time.Time `json:"last_message_timestamp" db:"last_message_timestamp"`
}
