package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"chat-engine/domain"
	"chat-engine/domain/event"
)

// Frame is the envelope of every message exchanged on a connection.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	eventSendMessage      = "sendMessage"
	eventJoinConversation = "joinConversation"
	eventMessagesRead     = "messagesRead"
	eventTyping           = "typing"
	eventEditMessage      = "editMessage"
	eventDeleteMessage    = "deleteMessage"
)

// Outbound event names.
const (
	eventReceiveMessage       = "receiveMessage"
	eventNewNotification      = "newNotification"
	eventMessagesMarkedAsRead = "messagesMarkedAsRead"
	eventUserTyping           = "userTyping"
	eventMessageUpdated       = "messageUpdated"
	eventMessageDeleted       = "messageDeleted"
	eventUserStatusChanged    = "userStatusChanged"
	eventConversationHistory  = "conversationHistory"
	eventError                = "error"
)

type sendMessagePayload struct {
	ConversationID int64  `json:"conversationId" validate:"required"`
	Text           string `json:"text" validate:"required"`
	ReceiverID     *int64 `json:"receiverId,omitempty"`
}

type joinConversationPayload struct {
	ConversationID int64 `json:"conversationId" validate:"required"`
}

type messagesReadPayload struct {
	ConversationID int64 `json:"conversationId" validate:"required"`
}

type typingPayload struct {
	ConversationID int64  `json:"conversationId" validate:"required"`
	UserName       string `json:"userName" validate:"required"`
	IsTyping       bool   `json:"isTyping"`
}

type editMessagePayload struct {
	MessageID      int64  `json:"messageId" validate:"required"`
	ConversationID int64  `json:"conversationId" validate:"required"`
	Text           string `json:"text" validate:"required"`
}

type deleteMessagePayload struct {
	MessageID      int64 `json:"messageId" validate:"required"`
	ConversationID int64 `json:"conversationId" validate:"required"`
}

type authorBody struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// messageBody is the canonical wire form of a message.
type messageBody struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversationId"`
	AuthorID       int64       `json:"authorId"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"createdAt"`
	EditedAt       *time.Time  `json:"editedAt,omitempty"`
	IsDeleted      bool        `json:"isDeleted"`
	IsRead         bool        `json:"isRead"`
	Author         *authorBody `json:"author,omitempty"`
}

type notificationBody struct {
	From           string `json:"from"`
	Text           string `json:"text"`
	ConversationID int64  `json:"conversationId"`
}

type markedAsReadBody struct {
	ConversationID int64     `json:"conversationId"`
	ReadBy         int64     `json:"readBy"`
	ReadAt         time.Time `json:"readAt"`
}

type userTypingBody struct {
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

type messageUpdatedBody struct {
	MessageID int64  `json:"messageId"`
	NewText   string `json:"newText"`
}

type messageDeletedBody struct {
	MessageID int64 `json:"messageId"`
}

type userStatusBody struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

type historyBody struct {
	ConversationID int64         `json:"conversationId"`
	Page           int           `json:"page"`
	Messages       []messageBody `json:"messages"`
}

type errorBody struct {
	Event   string `json:"event,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newFrame(name string, payload any) (Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: name, Data: data}, nil
}

func toMessageBody(m domain.Message, author *domain.Profile) messageBody {
	body := messageBody{
		ID:             int64(m.ID),
		ConversationID: int64(m.ConversationID),
		AuthorID:       int64(m.AuthorID),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		EditedAt:       m.EditedAt,
		IsDeleted:      m.IsDeleted,
		IsRead:         m.IsRead,
	}
	if author != nil {
		body.Author = &authorBody{
			ID:       int64(author.ID),
			Username: author.Username,
			Avatar:   author.Avatar,
		}
	}
	return body
}

// encodeOutbound maps engine events onto the wire protocol. There is
// exactly one wire name per event kind.
func encodeOutbound(e event.OutboundEvent) (Frame, error) {
	switch evt := e.(type) {
	case event.MessageCreated:
		return newFrame(eventReceiveMessage, toMessageBody(evt.Message.ForDisplay(), &evt.Author))
	case event.MessageUpdated:
		return newFrame(eventMessageUpdated, messageUpdatedBody{
			MessageID: int64(evt.MessageID),
			NewText:   evt.NewText,
		})
	case event.MessageDeleted:
		return newFrame(eventMessageDeleted, messageDeletedBody{MessageID: int64(evt.MessageID)})
	case event.ReadReceiptApplied:
		return newFrame(eventMessagesMarkedAsRead, markedAsReadBody{
			ConversationID: int64(evt.ConversationID),
			ReadBy:         int64(evt.ReadBy),
			ReadAt:         evt.ReadAt,
		})
	case event.TypingStatus:
		return newFrame(eventUserTyping, userTypingBody{
			UserName: evt.UserName,
			IsTyping: evt.IsTyping,
		})
	case event.DirectNotification:
		return newFrame(eventNewNotification, notificationBody{
			From:           evt.From,
			Text:           evt.Text,
			ConversationID: int64(evt.ConversationID),
		})
	case event.PresenceChanged:
		return newFrame(eventUserStatusChanged, userStatusBody{
			ID:       int64(evt.Presence.UserID),
			Username: evt.Username,
			IsOnline: evt.Presence.Online,
			LastSeen: evt.Presence.LastSeen,
		})
	case *event.PresenceChanged:
		return encodeOutbound(*evt)
	default:
		return Frame{}, fmt.Errorf("no wire mapping for event kind %q", e.Kind())
	}
}
