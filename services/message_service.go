//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"chat-engine/contract"
	"chat-engine/domain"
	errs "chat-engine/errors"
	"chat-engine/repositories"
)

type IMessageService interface {
	CreateMessage(ctx context.Context, senderID domain.UserID, conversationID domain.ConversationID, text string) (domain.Message, domain.Profile, error)
	EditMessage(ctx context.Context, messageID domain.MessageID, userID domain.UserID, newText string) (domain.Message, error)
	DeleteMessage(ctx context.Context, messageID domain.MessageID, userID domain.UserID) (domain.Message, error)
	GetMessagesByConversation(ctx context.Context, conversationID domain.ConversationID, limit, page int) ([]domain.Message, error)
	MarkAsRead(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) (int, time.Time, error)
}

// MessageService validates, persists and mutates messages. Writes
// targeting the same conversation are serialized so a rapid edit
// followed by a delete cannot complete out of order.
type MessageService struct {
	store     *repositories.Store
	messages  repositories.IMessageRepository
	directory contract.UserDirectory
	locks     *conversationLocks
	log       *slog.Logger
	now       func() time.Time
}

func NewMessageService(store *repositories.Store, messages repositories.IMessageRepository,
	directory contract.UserDirectory, log *slog.Logger) *MessageService {
	return &MessageService{
		store:     store,
		messages:  messages,
		directory: directory,
		locks:     newConversationLocks(),
		log:       log,
		now:       time.Now,
	}
}

// CreateMessage persists the message and the conversation summary as a
// single atomic unit, then enriches the result with the author's public
// profile. Participation of the sender has already been confirmed by
// the caller.
func (s *MessageService) CreateMessage(_ context.Context, senderID domain.UserID, conversationID domain.ConversationID, text string) (domain.Message, domain.Profile, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.Profile{}, fmt.Errorf("%w: message text is empty", errs.ErrValidation)
	}

	id, err := s.store.NextMessageID()
	if err != nil {
		return domain.Message{}, domain.Profile{}, err
	}
	message := domain.Message{
		ID:             id,
		ConversationID: conversationID,
		AuthorID:       senderID,
		Content:        text,
		CreatedAt:      s.now().UTC(),
	}

	unlock := s.locks.lock(conversationID)
	err = s.messages.Create(message)
	unlock()
	if err != nil {
		return domain.Message{}, domain.Profile{}, err
	}

	profile, err := s.directory.PublicProfile(senderID)
	if err != nil {
		// Delivery matters more than enrichment: fall back to a bare id.
		s.log.Warn("author profile lookup failed", "user_id", senderID, "error", err)
		profile = domain.Profile{ID: senderID}
	}
	return message, profile, nil
}

// EditMessage updates content and stamps EditedAt. Only the author may
// edit; conversation membership is not re-checked.
func (s *MessageService) EditMessage(_ context.Context, messageID domain.MessageID, userID domain.UserID, newText string) (domain.Message, error) {
	if strings.TrimSpace(newText) == "" {
		return domain.Message{}, fmt.Errorf("%w: message text is empty", errs.ErrValidation)
	}
	return s.mutateMessage(messageID, userID, func(m *domain.Message) {
		edited := s.now().UTC()
		m.Content = newText
		m.EditedAt = &edited
	})
}

// DeleteMessage soft-deletes: the stored content is retained but every
// read path substitutes the placeholder from now on.
func (s *MessageService) DeleteMessage(_ context.Context, messageID domain.MessageID, userID domain.UserID) (domain.Message, error) {
	return s.mutateMessage(messageID, userID, func(m *domain.Message) {
		m.IsDeleted = true
	})
}

// mutateMessage runs the NotFound and ownership gates, then applies the
// mutation under the conversation lock. The message is re-read inside
// the lock so two in-flight mutations cannot clobber each other.
func (s *MessageService) mutateMessage(messageID domain.MessageID, userID domain.UserID, apply func(*domain.Message)) (domain.Message, error) {
	message, err := s.messages.Get(messageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.AuthorID != userID {
		return domain.Message{}, fmt.Errorf("%w: user %d is not the author of message %d",
			errs.ErrAuthorization, userID, messageID)
	}

	unlock := s.locks.lock(message.ConversationID)
	defer unlock()

	message, err = s.messages.Get(messageID)
	if err != nil {
		return domain.Message{}, err
	}
	apply(&message)
	if err := s.messages.Update(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetMessagesByConversation returns the 1-indexed page, newest first,
// with soft-deleted messages already rewritten to the placeholder.
// Caller membership is enforced at the boundary, not here.
func (s *MessageService) GetMessagesByConversation(_ context.Context, conversationID domain.ConversationID, limit, page int) ([]domain.Message, error) {
	messages, err := s.messages.Page(conversationID, limit, page)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m domain.Message, _ int) domain.Message {
		return m.ForDisplay()
	}), nil
}

// MarkAsRead bulk-acknowledges every unread message authored by someone
// else. Coarse single-flag model, no per-recipient receipts.
func (s *MessageService) MarkAsRead(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) (int, time.Time, error) {
	readAt := s.now().UTC()
	count, err := s.messages.MarkRead(conversationID, userID)
	if err != nil {
		return 0, time.Time{}, err
	}
	return count, readAt, nil
}
