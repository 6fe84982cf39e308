package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a 1:1 channel between one user and the admin. The non-admin
// participant owns exactly one room, keyed by their username.
type Room struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewRoom(username, hashedPassword string) *Room {
	return &Room{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
}
