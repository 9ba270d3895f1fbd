package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-engine/domain"
	"chat-engine/domain/event"
)

type stubSink struct {
	name string
}

func (s stubSink) Consume(ctx context.Context, e event.OutboundEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	room := domain.ConversationRoom(1)
	sink := stubSink{name: "alice"}

	// Given no connection is registered
	// And no room exists
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// When a connection subscribes a room
	registry.Subscribe(connectionID, room, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[connectionID])

	req.Len(registry.RoomMembers, 1)
	req.Contains(registry.RoomMembers[room.String()], connectionID)

	req.Len(registry.GetSinksForRoom(room), 1)
	req.Contains(registry.GetSinksForRoom(room), sink)
}

func TestRegistry_Subscribe_One_Room_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID1 := uuid.NewString()
	connectionID2 := uuid.NewString()
	room := domain.ConversationRoom(1)
	sink1 := stubSink{name: "alice"}
	sink2 := stubSink{name: "bob"}

	// When connections subscribe a room
	registry.Subscribe(connectionID1, room, sink1)
	registry.Subscribe(connectionID2, room, sink2)

	// Then
	req.Len(registry.Sessions, 2)
	req.Len(registry.RoomMembers[room.String()], 2)

	req.Len(registry.GetSinksForRoom(room), 2)
	req.Contains(registry.GetSinksForRoom(room), sink1)
	req.Contains(registry.GetSinksForRoom(room), sink2)
}

func TestRegistry_Unsubscribe_Keeps_Session_And_Other_Rooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	roomA := domain.ConversationRoom(1)
	roomB := domain.ConversationRoom(2)
	sink := stubSink{name: "alice"}

	// Given a connection subscribed to two rooms
	registry.Subscribe(connectionID, roomA, sink)
	registry.Subscribe(connectionID, roomB, sink)

	// When it unsubscribes one room
	registry.Unsubscribe(connectionID, roomA)

	// Then the session and the other subscription survive
	req.Len(registry.Sessions, 1)
	req.Nil(registry.GetSinksForRoom(roomA))
	req.Len(registry.GetSinksForRoom(roomB), 1)

	// And the emptied room is gone
	req.NotContains(registry.RoomMembers, roomA.String())
}

func TestRegistry_Drop_Removes_Connection_Everywhere(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID1 := uuid.NewString()
	connectionID2 := uuid.NewString()
	room := domain.ConversationRoom(1)
	notifications := domain.UserNotificationsRoom(7)
	sink1 := stubSink{name: "alice"}
	sink2 := stubSink{name: "bob"}

	// Given two connections sharing a room, one also in its
	// notifications room
	registry.Subscribe(connectionID1, room, sink1)
	registry.Subscribe(connectionID1, notifications, sink1)
	registry.Subscribe(connectionID2, room, sink2)

	// When the first connection drops
	registry.Drop(connectionID1)

	// Then only the second remains, everywhere
	req.Len(registry.Sessions, 1)
	req.Len(registry.GetSinksForRoom(room), 1)
	req.Contains(registry.GetSinksForRoom(room), sink2)
	req.Nil(registry.GetSinksForRoom(notifications))
	req.NotContains(registry.RoomMembers, notifications.String())
}

func TestRegistry_AllSinks_Covers_Every_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	sink1 := stubSink{name: "alice"}
	sink2 := stubSink{name: "bob"}

	registry.Subscribe(uuid.NewString(), domain.ConversationRoom(1), sink1)
	registry.Subscribe(uuid.NewString(), domain.ConversationRoom(2), sink2)

	sinks := registry.AllSinks()
	req.Len(sinks, 2)
	req.Contains(sinks, sink1)
	req.Contains(sinks, sink2)
}
