package runtime

import (
	"context"
	"log/slog"
	"time"

	"chat-engine/contract"
	"chat-engine/domain/event"
)

// Broadcaster is the single component performing delivery. Handlers
// hand it outbound events; it resolves the target sinks through the
// registry and fans out. Delivery is fire-and-forget: no ack, no
// retry, no backpressure. A disconnected target silently drops its
// copy.
//
// Broadcaster is safe for concurrent use by multiple goroutines.
type Broadcaster struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      chan event.OutboundEvent
	sinkTimeout time.Duration
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry,
	bufferSize int, sinkTimeout time.Duration) *Broadcaster {
	return &Broadcaster{
		log:         log,
		registry:    registry,
		events:      make(chan event.OutboundEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// Publish enqueues events for delivery without blocking the caller.
// When the channel is full the event is dropped and logged.
func (b *Broadcaster) Publish(events ...event.OutboundEvent) {
	for _, evt := range events {
		select {
		case b.events <- evt:
		default:
			b.log.Warn("event channel full, dropping event", "kind", evt.Kind())
		}
	}
}

// Run drains the event channel until the context is canceled. It is
// meant to be supervised.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-b.events:
			b.fanout(ctx, evt)
		case <-ctx.Done():
			b.log.Debug("context done, stopping broadcaster")
			return nil
		}
	}
}

// fanout delivers one event to every subscribed sink. Room-scoped
// events go to the room's connections; everything else is global.
func (b *Broadcaster) fanout(ctx context.Context, evt event.OutboundEvent) {
	var sinks []contract.EventSink
	if roomEvt, ok := evt.(event.RoomEvent); ok {
		sinks = b.registry.GetSinksForRoom(roomEvt.RoomKey())
	} else {
		sinks = b.registry.AllSinks()
	}

	for _, sink := range sinks {
		deliveryCtx, cancel := context.WithTimeout(ctx, b.sinkTimeout)
		if err := sink.Consume(deliveryCtx, evt); err != nil {
			b.log.Debug("sink refused event", "kind", evt.Kind(), "error", err)
		}
		cancel()
	}
}
