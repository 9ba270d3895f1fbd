package gateway

import (
	"context"
	"log/slog"

	"chat-engine/domain/event"
)

// Sink bridges the broadcaster and one websocket connection. Consume is
// called by the broadcaster fan-out; the connection's write loop drains
// the frame channel. A full channel drops the event rather than block
// delivery to other connections.
type Sink struct {
	log    *slog.Logger
	frames chan Frame
}

func NewSink(log *slog.Logger, bufferSize int) *Sink {
	return &Sink{log: log, frames: make(chan Frame, bufferSize)}
}

func (s *Sink) Consume(ctx context.Context, e event.OutboundEvent) error {
	frame, err := encodeOutbound(e)
	if err != nil {
		return err
	}
	select {
	case s.frames <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("connection buffer full, dropping event", "kind", e.Kind())
		return nil
	}
}

// push enqueues a direct response frame (history, errors) produced by
// the connection's own handler rather than by the broadcaster.
func (s *Sink) push(frame Frame) {
	select {
	case s.frames <- frame:
	default:
		s.log.Debug("connection buffer full, dropping frame", "event", frame.Event)
	}
}

func (s *Sink) Frames() <-chan Frame {
	return s.frames
}
