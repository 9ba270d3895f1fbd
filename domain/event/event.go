// Package event defines the outbound events produced by handlers and
// delivered by the broadcaster. Delivery is best-effort with no
// guarantees regarding ordering across kinds, durability loss, or
// retries.
package event

import (
	"time"

	"chat-engine/domain"
)

type Kind string

const (
	KindMessageCreated     Kind = "message-created"
	KindMessageUpdated     Kind = "message-updated"
	KindMessageDeleted     Kind = "message-deleted"
	KindReadReceiptApplied Kind = "read-receipt-applied"
	KindTypingStatus       Kind = "typing-status"
	KindPresenceChanged    Kind = "presence-changed"
	KindDirectNotification Kind = "direct-notification"
)

// OutboundEvent is anything the broadcaster can deliver.
type OutboundEvent interface {
	Kind() Kind
}

// RoomEvent targets a single room. Events that do not implement
// RoomEvent are broadcast to every live connection.
type RoomEvent interface {
	OutboundEvent
	RoomKey() domain.RoomKey
}

type MessageCreated struct {
	Message domain.Message
	Author  domain.Profile
}

func (e MessageCreated) Kind() Kind { return KindMessageCreated }
func (e MessageCreated) RoomKey() domain.RoomKey {
	return domain.ConversationRoom(e.Message.ConversationID)
}

type MessageUpdated struct {
	ConversationID domain.ConversationID
	MessageID      domain.MessageID
	NewText        string
}

func (e MessageUpdated) Kind() Kind { return KindMessageUpdated }
func (e MessageUpdated) RoomKey() domain.RoomKey {
	return domain.ConversationRoom(e.ConversationID)
}

type MessageDeleted struct {
	ConversationID domain.ConversationID
	MessageID      domain.MessageID
}

func (e MessageDeleted) Kind() Kind { return KindMessageDeleted }
func (e MessageDeleted) RoomKey() domain.RoomKey {
	return domain.ConversationRoom(e.ConversationID)
}

type ReadReceiptApplied struct {
	ConversationID domain.ConversationID
	ReadBy         domain.UserID
	ReadAt         time.Time
}

func (e ReadReceiptApplied) Kind() Kind { return KindReadReceiptApplied }
func (e ReadReceiptApplied) RoomKey() domain.RoomKey {
	return domain.ConversationRoom(e.ConversationID)
}

type TypingStatus struct {
	ConversationID domain.ConversationID
	UserName       string
	IsTyping       bool
}

func (e TypingStatus) Kind() Kind { return KindTypingStatus }
func (e TypingStatus) RoomKey() domain.RoomKey {
	return domain.ConversationRoom(e.ConversationID)
}

// PresenceChanged is broadcast globally, not scoped to a room.
type PresenceChanged struct {
	Presence domain.Presence
	Username string
}

func (e PresenceChanged) Kind() Kind { return KindPresenceChanged }

type DirectNotification struct {
	To             domain.UserID
	From           string
	Text           string
	ConversationID domain.ConversationID
}

func (e DirectNotification) Kind() Kind { return KindDirectNotification }
func (e DirectNotification) RoomKey() domain.RoomKey {
	return domain.UserNotificationsRoom(e.To)
}
