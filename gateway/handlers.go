package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"chat-engine/domain"
	"chat-engine/domain/event"
	errs "chat-engine/errors"
)

// dispatch routes an inbound frame to its handler. Handlers return the
// outbound events to broadcast; direct responses (history, errors) are
// pushed on the session's own sink. All gate checks run before any
// mutation.
func (s *Server) dispatch(ctx context.Context, session *Session, frame Frame) ([]event.OutboundEvent, error) {
	switch frame.Event {
	case eventSendMessage:
		return s.handleSendMessage(ctx, session, frame.Data)
	case eventJoinConversation:
		return s.handleJoinConversation(ctx, session, frame.Data)
	case eventMessagesRead:
		return s.handleMessagesRead(ctx, session, frame.Data)
	case eventTyping:
		return s.handleTyping(ctx, session, frame.Data)
	case eventEditMessage:
		return s.handleEditMessage(ctx, session, frame.Data)
	case eventDeleteMessage:
		return s.handleDeleteMessage(ctx, session, frame.Data)
	default:
		return nil, fmt.Errorf("%w: unknown event %q", errs.ErrValidation, frame.Event)
	}
}

func (s *Server) handleSendMessage(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload sendMessagePayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}
	conversationID := domain.ConversationID(payload.ConversationID)

	if err := s.requireParticipant(ctx, conversationID, session.Identity.UserID); err != nil {
		return nil, err
	}

	message, author, err := s.messages.CreateMessage(ctx, session.Identity.UserID, conversationID, payload.Text)
	if err != nil {
		return nil, err
	}

	events := []event.OutboundEvent{event.MessageCreated{Message: message, Author: author}}
	if payload.ReceiverID != nil {
		events = append(events, event.DirectNotification{
			To:             domain.UserID(*payload.ReceiverID),
			From:           session.Identity.Username,
			Text:           message.Content,
			ConversationID: conversationID,
		})
	}
	return events, nil
}

// handleJoinConversation subscribes the connection to the conversation
// room and answers with the most recent page of history.
func (s *Server) handleJoinConversation(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload joinConversationPayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}
	conversationID := domain.ConversationID(payload.ConversationID)

	key, history, err := s.membership.JoinRoom(ctx, conversationID, session.Identity.UserID)
	if err != nil {
		return nil, err
	}
	s.registry.Subscribe(session.ID, key, session.Sink)

	body := historyBody{
		ConversationID: payload.ConversationID,
		Page:           1,
		Messages:       make([]messageBody, 0, len(history)),
	}
	for _, m := range history {
		body.Messages = append(body.Messages, toMessageBody(m, nil))
	}
	frame, err := newFrame(eventConversationHistory, body)
	if err != nil {
		return nil, err
	}
	session.Sink.push(frame)
	return nil, nil
}

func (s *Server) handleMessagesRead(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload messagesReadPayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}
	conversationID := domain.ConversationID(payload.ConversationID)

	if err := s.requireParticipant(ctx, conversationID, session.Identity.UserID); err != nil {
		return nil, err
	}

	_, readAt, err := s.messages.MarkAsRead(ctx, conversationID, session.Identity.UserID)
	if err != nil {
		return nil, err
	}
	return []event.OutboundEvent{event.ReadReceiptApplied{
		ConversationID: conversationID,
		ReadBy:         session.Identity.UserID,
		ReadAt:         readAt,
	}}, nil
}

func (s *Server) handleTyping(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload typingPayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}
	conversationID := domain.ConversationID(payload.ConversationID)

	if err := s.requireParticipant(ctx, conversationID, session.Identity.UserID); err != nil {
		return nil, err
	}
	return []event.OutboundEvent{event.TypingStatus{
		ConversationID: conversationID,
		UserName:       payload.UserName,
		IsTyping:       payload.IsTyping,
	}}, nil
}

func (s *Server) handleEditMessage(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload editMessagePayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}

	message, err := s.messages.EditMessage(ctx, domain.MessageID(payload.MessageID), session.Identity.UserID, payload.Text)
	if err != nil {
		return nil, err
	}
	return []event.OutboundEvent{event.MessageUpdated{
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
		NewText:        message.Content,
	}}, nil
}

func (s *Server) handleDeleteMessage(ctx context.Context, session *Session, data json.RawMessage) ([]event.OutboundEvent, error) {
	var payload deleteMessagePayload
	if err := s.decode(data, &payload); err != nil {
		return nil, err
	}

	message, err := s.messages.DeleteMessage(ctx, domain.MessageID(payload.MessageID), session.Identity.UserID)
	if err != nil {
		return nil, err
	}
	return []event.OutboundEvent{event.MessageDeleted{
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
	}}, nil
}

func (s *Server) requireParticipant(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) error {
	member, err := s.membership.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: user %d is not a participant of conversation %d",
			errs.ErrAuthorization, userID, conversationID)
	}
	return nil
}

func (s *Server) decode(data json.RawMessage, payload any) error {
	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("%w: malformed payload", errs.ErrValidation)
	}
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return nil
}
