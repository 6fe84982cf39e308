package events

import "github.com/supdesk/supdesk/internal/domain/models"

// Inbound is a client chat payload. Unknown extra fields are ignored by
// json.Unmarshal; sender and content are both required.
type Inbound struct {
	Sender  models.Role `json:"sender"`
	Content string      `json:"content"`
}

// Info is sent once to a connection after it successfully joins a room.
type Info struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error is sent to a single connection on a recoverable per-message failure.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewInfo(message string) Info {
	return Info{Type: "info", Message: message}
}

func NewError(message string) Error {
	return Error{Type: "error", Message: message}
}
