package memory

import (
	"log/slog"

	"github.com/supdesk/supdesk/internal/application/constant"
	"github.com/supdesk/supdesk/internal/application/metric"
)

// Broadcaster fans a payload out to every connection currently registered to
// a room.
type Broadcaster struct {
	registry ConnectionRegistry
}

func NewBroadcaster(registry ConnectionRegistry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast sends payload to the room's snapshot of connections and returns
// the number of sends attempted. Each send is isolated: a peer that failed
// mid-fan-out gets its socket closed so its owning session unregisters it,
// and delivery to the remaining connections continues. A room with no
// connections is a valid no-op.
func (b *Broadcaster) Broadcast(roomID string, payload any) int {
	conns := b.registry.ConnectionsInRoom(roomID)

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			slog.Error(
				"broadcast write failed",
				slog.Any(constant.Error, err),
				slog.String(constant.RoomID, roomID),
				slog.String(constant.ConnID, conn.ID.String()),
			)

			conn.Close()
		}
	}

	metric.AddMessagesBroadcast(len(conns))

	return len(conns)
}
