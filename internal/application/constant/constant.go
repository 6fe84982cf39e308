package constant

// Shared slog attribute keys.
const (
	Error    = "error"
	UserName = "username"
	RoomID   = "room_id"
	ConnID   = "conn_id"
	Role     = "role"
)
