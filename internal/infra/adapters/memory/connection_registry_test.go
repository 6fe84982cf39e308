package memory_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/domain/runtime"
	"github.com/supdesk/supdesk/internal/infra/adapters/memory"
)

type fakeWire struct {
	mu       sync.Mutex
	writes   []any
	writeErr error
	closed   bool
}

func (f *fakeWire) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}

	f.writes = append(f.writes, v)
	return nil
}

func (f *fakeWire) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return nil
}

func (f *fakeWire) Writes() []any {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]any, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeWire) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closed
}

func newConn(roomID string, role models.Role) *runtime.Connection {
	return runtime.NewConnection(roomID, "somebody", role, &fakeWire{})
}

func connIDs(conns []*runtime.Connection) map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(conns))
	for _, c := range conns {
		ids[c.ID] = struct{}{}
	}
	return ids
}

func TestRegistryMembership(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	user := newConn("r1", models.RoleUser)
	admin := newConn("r1", models.RoleAdmin)
	other := newConn("r2", models.RoleUser)

	registry.Register(user)
	registry.Register(admin)
	registry.Register(other)

	require.Equal(t, 3, registry.ActiveCount())

	r1 := registry.ConnectionsInRoom("r1")
	require.Len(t, r1, 2)
	require.Contains(t, connIDs(r1), user.ID)
	require.Contains(t, connIDs(r1), admin.ID)

	r2 := registry.ConnectionsInRoom("r2")
	require.Len(t, r2, 1)
	require.Contains(t, connIDs(r2), other.ID)
}

func TestRegisterThenUnregisterLeavesRoomUnchanged(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	resident := newConn("r1", models.RoleUser)
	registry.Register(resident)

	before := connIDs(registry.ConnectionsInRoom("r1"))

	visitor := newConn("r1", models.RoleAdmin)
	registry.Register(visitor)
	registry.Unregister(visitor)

	after := connIDs(registry.ConnectionsInRoom("r1"))
	require.Equal(t, before, after)
	require.Equal(t, 1, registry.ActiveCount())
}

func TestUnregisterIdempotent(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	conn := newConn("r1", models.RoleUser)
	registry.Register(conn)

	registry.Unregister(conn)
	registry.Unregister(conn)

	require.Equal(t, 0, registry.ActiveCount())
	require.Empty(t, registry.ConnectionsInRoom("r1"))
}

func TestUnregisterUnknownConnectionIsNoop(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	registry.Unregister(newConn("r1", models.RoleUser))

	require.Equal(t, 0, registry.ActiveCount())
}

func TestRegisterDuplicateIdentityOnce(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	conn := newConn("r1", models.RoleUser)
	registry.Register(conn)
	registry.Register(conn)

	require.Equal(t, 1, registry.ActiveCount())
	require.Len(t, registry.ConnectionsInRoom("r1"), 1)

	registry.Unregister(conn)
	require.Equal(t, 0, registry.ActiveCount())
}

func TestSnapshotUnaffectedByLaterMutation(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	conn := newConn("r1", models.RoleUser)
	registry.Register(conn)

	snapshot := registry.ConnectionsInRoom("r1")
	registry.Unregister(conn)

	require.Len(t, snapshot, 1)
	require.Empty(t, registry.ConnectionsInRoom("r1"))
}

func TestConcurrentRegisterUnregister(t *testing.T) {
	registry := memory.NewConnectionRegistry()

	rooms := []string{"r1", "r2", "r3"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		roomID := rooms[i%len(rooms)]

		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				conn := newConn(roomID, models.RoleUser)
				registry.Register(conn)
				registry.ConnectionsInRoom(roomID)
				registry.Unregister(conn)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 0, registry.ActiveCount())
	for _, roomID := range rooms {
		require.Empty(t, registry.ConnectionsInRoom(roomID))
	}
}
