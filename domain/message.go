package domain

import "time"

type MessageID int64

// DeletedPlaceholder replaces the content of soft-deleted messages on
// every read path. The original content stays in storage.
const DeletedPlaceholder = "This message was deleted"

// Message ordering key is (CreatedAt, ID) ascending. Messages are never
// destroyed individually, only soft-deleted; hard removal happens solely
// through the conversation cascade.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	AuthorID       UserID
	Content        string
	CreatedAt      time.Time
	EditedAt       *time.Time
	IsDeleted      bool
	IsRead         bool
}

// ForDisplay returns the reader-facing copy of the message, substituting
// the placeholder when the message has been soft-deleted.
func (m Message) ForDisplay() Message {
	if m.IsDeleted {
		m.Content = DeletedPlaceholder
	}
	return m
}
