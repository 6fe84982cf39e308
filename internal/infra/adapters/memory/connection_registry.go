package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/supdesk/supdesk/internal/application/metric"
	"github.com/supdesk/supdesk/internal/domain/runtime"
)

// ConnectionRegistry tracks every live connection and its room membership.
// A connection belongs to at most one room; it is in the global set iff it
// is in exactly one room set.
type ConnectionRegistry interface {
	Register(conn *runtime.Connection)

	// Unregister is idempotent: removing an already-removed connection is
	// a no-op.
	Unregister(conn *runtime.Connection)

	// ConnectionsInRoom returns a point-in-time snapshot. Mutations after
	// the call do not affect the returned slice.
	ConnectionsInRoom(roomID string) []*runtime.Connection

	ActiveCount() int
}

type connectionRegistry struct {
	// rooms holds map[room_id]map[conn_id]*Connection
	rooms map[string]map[uuid.UUID]*runtime.Connection
	conns map[uuid.UUID]*runtime.Connection

	mu sync.RWMutex
}

func NewConnectionRegistry() ConnectionRegistry {
	return &connectionRegistry{
		rooms: make(map[string]map[uuid.UUID]*runtime.Connection),
		conns: make(map[uuid.UUID]*runtime.Connection),
	}
}

func (r *connectionRegistry) Register(conn *runtime.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[conn.ID]; exists {
		return
	}

	r.conns[conn.ID] = conn

	if _, ok := r.rooms[conn.RoomID]; !ok {
		r.rooms[conn.RoomID] = make(map[uuid.UUID]*runtime.Connection)
	}
	r.rooms[conn.RoomID][conn.ID] = conn

	metric.IncrementWSActiveConnections()
}

func (r *connectionRegistry) Unregister(conn *runtime.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[conn.ID]; !exists {
		return
	}

	delete(r.conns, conn.ID)
	delete(r.rooms[conn.RoomID], conn.ID)

	if len(r.rooms[conn.RoomID]) == 0 {
		delete(r.rooms, conn.RoomID)
	}

	metric.DecrementWSActiveConnections()
}

func (r *connectionRegistry) ConnectionsInRoom(roomID string) []*runtime.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	snapshot := make([]*runtime.Connection, 0, len(members))
	for _, conn := range members {
		snapshot = append(snapshot, conn)
	}

	return snapshot
}

func (r *connectionRegistry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
