// Package gateway is the session layer: it authenticates handshakes,
// owns the per-connection read/write loops, and feeds handler output to
// the broadcaster.
package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"chat-engine/contract"
	"chat-engine/domain"
	"chat-engine/domain/event"
	errs "chat-engine/errors"
	"chat-engine/runtime"
	"chat-engine/services"
)

type Server struct {
	log                  *slog.Logger
	auth                 contract.Auth
	registry             contract.IRegistry
	presence             *runtime.PresenceTracker
	broadcaster          contract.IBroadcaster
	membership           services.IMembershipService
	messages             services.IMessageService
	validate             *validator.Validate
	upgrader             websocket.Upgrader
	connectionBufferSize int
}

func NewServer(log *slog.Logger, auth contract.Auth, registry contract.IRegistry,
	presence *runtime.PresenceTracker, broadcaster contract.IBroadcaster,
	membership services.IMembershipService, messages services.IMessageService,
	connectionBufferSize int) *Server {
	return &Server{
		log:                  log,
		auth:                 auth,
		registry:             registry,
		presence:             presence,
		broadcaster:          broadcaster,
		membership:           membership,
		messages:             messages,
		validate:             validator.New(),
		upgrader:             websocket.Upgrader{},
		connectionBufferSize: connectionBufferSize,
	}
}

// HandleConnection authenticates the handshake, then runs the
// connection until the client disconnects. An absent or invalid token
// terminates the request before any event is processed.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	identity, err := s.auth.VerifyToken(bearerToken(r))
	if err != nil {
		s.log.Warn("handshake rejected", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := NewSession(identity, s.log, s.connectionBufferSize)
	s.log.Info("connection established", "connection_id", session.ID, "user_id", identity.UserID)

	// Every connection listens on its own direct notification channel.
	s.registry.Subscribe(session.ID, domain.UserNotificationsRoom(identity.UserID), session.Sink)
	s.publishPresence(s.presence.Register(identity))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writeLoop(ctx, conn, session)
	s.readLoop(ctx, session, conn)

	s.registry.Drop(session.ID)
	s.publishPresence(s.presence.Unregister(identity))
	s.log.Info("connection closed", "connection_id", session.ID, "user_id", identity.UserID)
}

// readLoop decodes inbound frames and dispatches them. Every handled
// event yields either broadcast events or a compact structured error on
// the same connection; the connection stays open on handler errors.
func (s *Server) readLoop(ctx context.Context, session *Session, conn *websocket.Conn) {
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("read failed", "connection_id", session.ID, "error", err)
			}
			return
		}

		events, err := s.dispatch(ctx, session, frame)
		if err != nil {
			code, message := errs.MapToWire(err)
			s.log.Debug("event rejected",
				"connection_id", session.ID,
				"event", frame.Event,
				"code", code,
				"error", err)
			errFrame, encodeErr := newFrame(eventError, errorBody{
				Event:   frame.Event,
				Code:    code,
				Message: message,
			})
			if encodeErr == nil {
				session.Sink.push(errFrame)
			}
			continue
		}
		s.broadcaster.Publish(events...)
	}
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, session *Session) {
	for {
		select {
		case frame := <-session.Sink.Frames():
			if err := conn.WriteJSON(frame); err != nil {
				s.log.Debug("write failed", "connection_id", session.ID, "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// publishPresence broadcasts a presence transition when one happened.
// A persistence failure is logged, never surfaced to the client.
func (s *Server) publishPresence(evt *event.PresenceChanged, err error) {
	if err != nil {
		s.log.Error("presence update failed", "error", err)
		return
	}
	if evt != nil {
		s.broadcaster.Publish(*evt)
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
