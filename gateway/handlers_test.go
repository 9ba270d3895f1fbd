package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-engine/domain"
	"chat-engine/domain/event"
	errs "chat-engine/errors"
	"chat-engine/mocks"
)

type serverFixture struct {
	server      *Server
	registry    *mocks.MockIRegistry
	broadcaster *mocks.MockIBroadcaster
	membership  *mocks.MockIMembershipService
	messages    *mocks.MockIMessageService
	session     *Session
}

func newServerFixture(t *testing.T) serverFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	auth := mocks.NewMockAuth(ctrl)
	registry := mocks.NewMockIRegistry(ctrl)
	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	membership := mocks.NewMockIMembershipService(ctrl)
	messages := mocks.NewMockIMessageService(ctrl)

	server := NewServer(slog.Default(), auth, registry, nil, broadcaster, membership, messages, 16)
	session := NewSession(domain.Identity{UserID: 1, Username: "alice"}, slog.Default(), 16)

	return serverFixture{
		server:      server,
		registry:    registry,
		broadcaster: broadcaster,
		membership:  membership,
		messages:    messages,
		session:     session,
	}
}

func inbound(t *testing.T, name string, payload any) Frame {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return Frame{Event: name, Data: data}
}

func TestDispatch_SendMessage(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	message := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, Content: "hello", CreatedAt: time.Now().UTC()}
	author := domain.Profile{ID: 1, Username: "alice"}

	f.membership.EXPECT().IsParticipant(ctx, domain.ConversationID(7), domain.UserID(1)).Return(true, nil)
	f.messages.EXPECT().CreateMessage(ctx, domain.UserID(1), domain.ConversationID(7), "hello").
		Return(message, author, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "sendMessage",
		map[string]any{"conversationId": 7, "text": "hello"}))

	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.MessageCreated{Message: message, Author: author}, events[0])
}

func TestDispatch_SendMessage_With_Receiver_Notifies_Directly(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	message := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, Content: "hello"}

	f.membership.EXPECT().IsParticipant(ctx, domain.ConversationID(7), domain.UserID(1)).Return(true, nil)
	f.messages.EXPECT().CreateMessage(ctx, domain.UserID(1), domain.ConversationID(7), "hello").
		Return(message, domain.Profile{ID: 1, Username: "alice"}, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "sendMessage",
		map[string]any{"conversationId": 7, "text": "hello", "receiverId": 2}))

	req.NoError(err)
	req.Len(events, 2)
	req.Equal(event.DirectNotification{
		To:             2,
		From:           "alice",
		Text:           "hello",
		ConversationID: 7,
	}, events[1])
}

func TestDispatch_SendMessage_Gates_On_Participation(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	f.membership.EXPECT().IsParticipant(ctx, domain.ConversationID(7), domain.UserID(1)).Return(false, nil)
	f.messages.EXPECT().CreateMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.server.dispatch(ctx, f.session, inbound(t, "sendMessage",
		map[string]any{"conversationId": 7, "text": "hello"}))

	req.ErrorIs(err, errs.ErrAuthorization)
}

func TestDispatch_JoinConversation_Subscribes_And_Returns_History(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	history := []domain.Message{{ID: 3, ConversationID: 7, Content: "latest"}}
	room := domain.ConversationRoom(7)

	f.membership.EXPECT().JoinRoom(ctx, domain.ConversationID(7), domain.UserID(1)).Return(room, history, nil)
	f.registry.EXPECT().Subscribe(f.session.ID, room, f.session.Sink)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "joinConversation",
		map[string]any{"conversationId": 7}))

	req.NoError(err)
	// History goes back on the connection itself, nothing is broadcast.
	req.Empty(events)

	select {
	case frame := <-f.session.Sink.Frames():
		req.Equal("conversationHistory", frame.Event)
		var body historyBody
		req.NoError(json.Unmarshal(frame.Data, &body))
		req.Equal(int64(7), body.ConversationID)
		req.Len(body.Messages, 1)
		req.Equal("latest", body.Messages[0].Content)
	default:
		req.Fail("expected a history frame on the session sink")
	}
}

func TestDispatch_JoinConversation_Refused_Does_Not_Subscribe(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	f.membership.EXPECT().JoinRoom(ctx, domain.ConversationID(7), domain.UserID(1)).
		Return(domain.RoomKey{}, nil, errs.ErrAuthorization)
	f.registry.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.server.dispatch(ctx, f.session, inbound(t, "joinConversation",
		map[string]any{"conversationId": 7}))

	req.ErrorIs(err, errs.ErrAuthorization)
}

func TestDispatch_MessagesRead(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()
	readAt := time.Now().UTC()

	f.membership.EXPECT().IsParticipant(ctx, domain.ConversationID(7), domain.UserID(1)).Return(true, nil)
	f.messages.EXPECT().MarkAsRead(ctx, domain.ConversationID(7), domain.UserID(1)).Return(2, readAt, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "messagesRead",
		map[string]any{"conversationId": 7}))

	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.ReadReceiptApplied{ConversationID: 7, ReadBy: 1, ReadAt: readAt}, events[0])
}

func TestDispatch_Typing(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	f.membership.EXPECT().IsParticipant(ctx, domain.ConversationID(7), domain.UserID(1)).Return(true, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "typing",
		map[string]any{"conversationId": 7, "userName": "alice", "isTyping": true}))

	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.TypingStatus{ConversationID: 7, UserName: "alice", IsTyping: true}, events[0])
}

func TestDispatch_EditMessage_Uses_Server_Side_Conversation(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	// The stored message belongs to conversation 7 regardless of what
	// the payload claims.
	edited := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, Content: "revised"}
	f.messages.EXPECT().EditMessage(ctx, domain.MessageID(3), domain.UserID(1), "revised").Return(edited, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "editMessage",
		map[string]any{"messageId": 3, "conversationId": 999, "text": "revised"}))

	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.MessageUpdated{ConversationID: 7, MessageID: 3, NewText: "revised"}, events[0])
}

func TestDispatch_DeleteMessage(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)
	ctx := context.Background()

	deleted := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, IsDeleted: true}
	f.messages.EXPECT().DeleteMessage(ctx, domain.MessageID(3), domain.UserID(1)).Return(deleted, nil)

	events, err := f.server.dispatch(ctx, f.session, inbound(t, "deleteMessage",
		map[string]any{"messageId": 3, "conversationId": 7}))

	req.NoError(err)
	req.Len(events, 1)
	req.Equal(event.MessageDeleted{ConversationID: 7, MessageID: 3}, events[0])
}

func TestDispatch_Missing_Required_Field(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)

	f.messages.EXPECT().CreateMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.server.dispatch(context.Background(), f.session, inbound(t, "sendMessage",
		map[string]any{"conversationId": 7}))

	req.ErrorIs(err, errs.ErrValidation)
}

func TestDispatch_Unknown_Event(t *testing.T) {
	req := require.New(t)
	f := newServerFixture(t)

	_, err := f.server.dispatch(context.Background(), f.session, Frame{Event: "selfDestruct"})

	req.ErrorIs(err, errs.ErrValidation)
}
