package gateway

import (
	"log/slog"

	"github.com/google/uuid"

	"chat-engine/domain"
)

// Session is the explicit per-connection context created at handshake
// and passed to every handler. Identity never lives on the transport
// object itself.
type Session struct {
	ID       string
	Identity domain.Identity
	Sink     *Sink
}

func NewSession(identity domain.Identity, log *slog.Logger, bufferSize int) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Identity: identity,
		Sink:     NewSink(log, bufferSize),
	}
}
