package domain

import "fmt"

type RoomKind int

const (
	RoomConversation RoomKind = iota
	RoomUserNotifications
)

// RoomKey is the typed identifier of a broadcast channel. Keys are
// derived deterministically from integer ids and never collide across
// kinds.
type RoomKey struct {
	Kind RoomKind
	ID   int64
}

func ConversationRoom(id ConversationID) RoomKey {
	return RoomKey{Kind: RoomConversation, ID: int64(id)}
}

func UserNotificationsRoom(id UserID) RoomKey {
	return RoomKey{Kind: RoomUserNotifications, ID: int64(id)}
}

// String is the single place producing the wire form of a room key.
func (k RoomKey) String() string {
	switch k.Kind {
	case RoomUserNotifications:
		return fmt.Sprintf("user_notifications_%d", k.ID)
	default:
		return fmt.Sprintf("conversation_%d", k.ID)
	}
}
