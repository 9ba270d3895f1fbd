package gateway

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-engine/domain/event"
)

func TestSink_Consume_Delivers_Encoded_Frame(t *testing.T) {
	req := require.New(t)
	sink := NewSink(slog.Default(), 4)

	err := sink.Consume(context.Background(), event.TypingStatus{ConversationID: 7, UserName: "alice", IsTyping: true})

	req.NoError(err)
	frame := <-sink.Frames()
	req.Equal("userTyping", frame.Event)
}

func TestSink_Consume_Drops_When_Full(t *testing.T) {
	req := require.New(t)
	sink := NewSink(slog.Default(), 1)
	evt := event.TypingStatus{ConversationID: 7, UserName: "alice", IsTyping: true}

	// Given a full buffer with no reader
	req.NoError(sink.Consume(context.Background(), evt))

	// When another event arrives, Consume returns without blocking
	req.NoError(sink.Consume(context.Background(), evt))

	// And only the first frame was kept
	req.Len(sink.Frames(), 1)
}

func TestSink_Consume_Rejects_Unmapped_Event(t *testing.T) {
	req := require.New(t)
	sink := NewSink(slog.Default(), 4)

	err := sink.Consume(context.Background(), unknownEvent{})

	req.Error(err)
	req.Empty(sink.Frames())
}
