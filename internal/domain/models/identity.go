package models

// Identity is the result of verifying a credential. RoomID is nil for the
// admin, who is not bound to any single room.
type Identity struct {
	Username string
	Role     Role
	RoomID   *string
}
