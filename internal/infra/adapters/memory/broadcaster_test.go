package memory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/domain/runtime"
	"github.com/supdesk/supdesk/internal/infra/adapters/memory"
)

func TestBroadcastReachesEveryConnection(t *testing.T) {
	registry := memory.NewConnectionRegistry()
	broadcaster := memory.NewBroadcaster(registry)

	wires := []*fakeWire{{}, {}, {}}
	for _, w := range wires {
		registry.Register(runtime.NewConnection("r1", "somebody", models.RoleUser, w))
	}

	attempted := broadcaster.Broadcast("r1", "payload")

	require.Equal(t, 3, attempted)
	for _, w := range wires {
		require.Equal(t, []any{"payload"}, w.Writes())
	}
}

func TestBroadcastFailingSendIsIsolated(t *testing.T) {
	registry := memory.NewConnectionRegistry()
	broadcaster := memory.NewBroadcaster(registry)

	healthy := &fakeWire{}
	broken := &fakeWire{writeErr: errors.New("peer gone")}
	alsoHealthy := &fakeWire{}

	registry.Register(runtime.NewConnection("r1", "somebody", models.RoleUser, healthy))
	registry.Register(runtime.NewConnection("r1", "somebody", models.RoleAdmin, broken))
	registry.Register(runtime.NewConnection("r1", "somebody", models.RoleUser, alsoHealthy))

	attempted := broadcaster.Broadcast("r1", "payload")

	require.Equal(t, 3, attempted)
	require.Equal(t, []any{"payload"}, healthy.Writes())
	require.Equal(t, []any{"payload"}, alsoHealthy.Writes())

	// The failed peer gets its socket closed so its owning session
	// observes the failure and unregisters it.
	require.True(t, broken.Closed())
	require.False(t, healthy.Closed())
}

func TestBroadcastEmptyRoomIsNoop(t *testing.T) {
	registry := memory.NewConnectionRegistry()
	broadcaster := memory.NewBroadcaster(registry)

	require.Equal(t, 0, broadcaster.Broadcast("nobody-home", "payload"))
}

func TestBroadcastDoesNotCrossRooms(t *testing.T) {
	registry := memory.NewConnectionRegistry()
	broadcaster := memory.NewBroadcaster(registry)

	inRoom := &fakeWire{}
	elsewhere := &fakeWire{}

	registry.Register(runtime.NewConnection("r1", "somebody", models.RoleUser, inRoom))
	registry.Register(runtime.NewConnection("r2", "somebody", models.RoleUser, elsewhere))

	attempted := broadcaster.Broadcast("r1", "payload")

	require.Equal(t, 1, attempted)
	require.Equal(t, []any{"payload"}, inRoom.Writes())
	require.Empty(t, elsewhere.Writes())
}
