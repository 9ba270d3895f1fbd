package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-engine/contract"
	"chat-engine/domain"
	"chat-engine/domain/event"
	"chat-engine/mocks"
)

type captureSink struct {
	received chan event.OutboundEvent
}

func newCaptureSink() captureSink {
	return captureSink{received: make(chan event.OutboundEvent, 8)}
}

func (c captureSink) Consume(ctx context.Context, e event.OutboundEvent) error {
	c.received <- e
	return nil
}

func awaitEvent(t *testing.T, sink captureSink) event.OutboundEvent {
	t.Helper()
	select {
	case e := <-sink.received:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return nil
	}
}

func TestBroadcaster_Room_Event_Reaches_Only_The_Room(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	sink := newCaptureSink()

	evt := event.MessageCreated{
		Message: domain.Message{ID: 1, ConversationID: 7, AuthorID: 1, Content: "hello"},
	}

	// Then delivery is resolved through the room, never globally
	registry.EXPECT().
		GetSinksForRoom(domain.ConversationRoom(7)).
		Return([]contract.EventSink{sink}).
		Times(1)
	registry.EXPECT().AllSinks().Times(0)

	broadcaster := NewBroadcaster(slog.Default(), registry, 16, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = broadcaster.Run(ctx) }()

	// When a room-scoped event is published
	broadcaster.Publish(evt)

	delivered := awaitEvent(t, sink)
	req.Equal(evt, delivered)
}

func TestBroadcaster_Presence_Event_Goes_Global(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	sink1 := newCaptureSink()
	sink2 := newCaptureSink()

	evt := &event.PresenceChanged{
		Presence: domain.Presence{UserID: 1, Online: true, LastSeen: time.Now().UTC()},
		Username: "alice",
	}

	// Then every live connection is targeted
	registry.EXPECT().
		AllSinks().
		Return([]contract.EventSink{sink1, sink2}).
		Times(1)

	broadcaster := NewBroadcaster(slog.Default(), registry, 16, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = broadcaster.Run(ctx) }()

	// When a presence transition is published
	broadcaster.Publish(evt)

	req.Equal(event.KindPresenceChanged, awaitEvent(t, sink1).Kind())
	req.Equal(event.KindPresenceChanged, awaitEvent(t, sink2).Kind())
}

func TestBroadcaster_Publish_Never_Blocks_When_Full(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)

	// Given a broadcaster whose run loop never starts, buffer of one
	broadcaster := NewBroadcaster(slog.Default(), registry, 1, time.Second)
	evt := event.TypingStatus{ConversationID: 1, UserName: "alice", IsTyping: true}

	done := make(chan struct{})
	go func() {
		// When more events arrive than the buffer holds
		broadcaster.Publish(evt, evt, evt)
		close(done)
	}()

	select {
	case <-done:
		// Then the excess is dropped, the caller is never held up
	case <-time.After(time.Second):
		req.Fail("Publish blocked on a full channel")
	}
}
