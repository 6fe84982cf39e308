package runtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/supdesk/supdesk/internal/domain/models"
)

// Wire is the write side of a live bidirectional connection.
// *websocket.Conn satisfies it.
type Wire interface {
	WriteJSON(v any) error
	Close() error
}

// Connection is one authenticated, room-bound live connection. The registry
// owns its room membership; the session owning the read loop owns its
// lifecycle. Writes are serialized with a mutex so the broadcaster and the
// owning session never interleave frames.
type Connection struct {
	ID       uuid.UUID
	RoomID   string
	Username string
	Role     models.Role

	wire Wire
	mu   sync.Mutex
}

func NewConnection(roomID, username string, role models.Role, wire Wire) *Connection {
	return &Connection{
		ID:       uuid.New(),
		RoomID:   roomID,
		Username: username,
		Role:     role,
		wire:     wire,
	}
}

func (c *Connection) WriteJSON(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.wire.WriteJSON(payload)
}

func (c *Connection) Close() error {
	return c.wire.Close()
}
