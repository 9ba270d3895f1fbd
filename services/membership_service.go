//go:generate go run go.uber.org/mock/mockgen -source=membership_service.go -destination=../mocks/mock_membership_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"chat-engine/domain"
	errs "chat-engine/errors"
	"chat-engine/repositories"
)

type IMembershipService interface {
	IsParticipant(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) (bool, error)
	JoinRoom(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) (domain.RoomKey, []domain.Message, error)
	FindOrCreatePrivate(ctx context.Context, u1, u2 domain.UserID) (domain.Conversation, error)
	CreateGroup(ctx context.Context, name string, adminID domain.UserID, participantIDs []domain.UserID) (domain.Conversation, error)
	AddParticipant(ctx context.Context, conversationID domain.ConversationID, targetUserID, requesterID domain.UserID) (domain.Conversation, error)
	RemoveParticipant(ctx context.Context, conversationID domain.ConversationID, targetUserID, requesterID domain.UserID) (repositories.Removal, error)
	LeaveOrDelete(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) (repositories.Removal, error)
}

// MembershipService answers participation queries and mutates
// participant sets. Every mutation for a given conversation is
// serialized through a per-conversation lock on top of the storage
// transaction.
type MembershipService struct {
	conversations   repositories.IConversationRepository
	messages        repositories.IMessageRepository
	locks           *conversationLocks
	historyPageSize int
	log             *slog.Logger
	now             func() time.Time
}

func NewMembershipService(conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository, historyPageSize int, log *slog.Logger) *MembershipService {
	return &MembershipService{
		conversations:   conversations,
		messages:        messages,
		locks:           newConversationLocks(),
		historyPageSize: historyPageSize,
		log:             log,
		now:             time.Now,
	}
}

func (s *MembershipService) IsParticipant(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) (bool, error) {
	return s.conversations.IsParticipant(conversationID, userID)
}

// JoinRoom gates on participation and returns the room key to subscribe
// the connection to, plus the most recent page of messages so the
// caller can render history.
func (s *MembershipService) JoinRoom(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) (domain.RoomKey, []domain.Message, error) {
	member, err := s.conversations.IsParticipant(conversationID, userID)
	if err != nil {
		return domain.RoomKey{}, nil, err
	}
	if !member {
		return domain.RoomKey{}, nil, fmt.Errorf("%w: user %d is not a participant of conversation %d",
			errs.ErrAuthorization, userID, conversationID)
	}

	page, err := s.messages.Page(conversationID, s.historyPageSize, 1)
	if err != nil {
		return domain.RoomKey{}, nil, err
	}
	history := lo.Map(page, func(m domain.Message, _ int) domain.Message {
		return m.ForDisplay()
	})
	return domain.ConversationRoom(conversationID), history, nil
}

// FindOrCreatePrivate is idempotent: repeated calls with the same pair,
// in either order, resolve to the same conversation.
func (s *MembershipService) FindOrCreatePrivate(_ context.Context, u1, u2 domain.UserID) (domain.Conversation, error) {
	if u1 == u2 {
		return domain.Conversation{}, fmt.Errorf("%w: cannot open a conversation with yourself", errs.ErrValidation)
	}
	return s.conversations.CreatePrivate(u1, u2, s.now().UTC())
}

// CreateGroup silently removes the creator from the participant list if
// present; the creator is always inserted once, flagged admin.
func (s *MembershipService) CreateGroup(_ context.Context, name string, adminID domain.UserID, participantIDs []domain.UserID) (domain.Conversation, error) {
	if len(participantIDs) == 0 {
		return domain.Conversation{}, fmt.Errorf("%w: a group needs at least one participant", errs.ErrValidation)
	}
	members := lo.Uniq(lo.Filter(participantIDs, func(id domain.UserID, _ int) bool {
		return id != adminID
	}))
	if len(members) == 0 {
		return domain.Conversation{}, fmt.Errorf("%w: a group needs a participant other than its creator", errs.ErrValidation)
	}
	return s.conversations.CreateGroup(name, adminID, members, s.now().UTC())
}

func (s *MembershipService) AddParticipant(_ context.Context, conversationID domain.ConversationID, targetUserID, requesterID domain.UserID) (domain.Conversation, error) {
	unlock := s.locks.lock(conversationID)
	defer unlock()

	conv, err := s.conversations.Get(conversationID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !conv.IsGroup {
		return domain.Conversation{}, fmt.Errorf("%w: cannot add participants to a private conversation", errs.ErrValidation)
	}
	if !conv.IsAdmin(requesterID) {
		return domain.Conversation{}, fmt.Errorf("%w: only an admin can add participants", errs.ErrAuthorization)
	}
	return s.conversations.AddParticipant(conversationID, targetUserID, s.now().UTC())
}

// RemoveParticipant allows self-leave for anyone and removal of others
// for admins only.
func (s *MembershipService) RemoveParticipant(ctx context.Context, conversationID domain.ConversationID, targetUserID, requesterID domain.UserID) (repositories.Removal, error) {
	unlock := s.locks.lock(conversationID)
	defer unlock()

	conv, err := s.conversations.Get(conversationID)
	if err != nil {
		return repositories.Removal{}, err
	}
	if requesterID != targetUserID && !conv.IsAdmin(requesterID) {
		return repositories.Removal{}, fmt.Errorf("%w: only the participant itself or an admin can remove", errs.ErrAuthorization)
	}
	if !conv.HasParticipant(requesterID) || !conv.HasParticipant(targetUserID) {
		return repositories.Removal{}, fmt.Errorf("%w: participant not in conversation", errs.ErrNotFound)
	}
	return s.conversations.RemoveParticipant(conversationID, targetUserID)
}

// LeaveOrDelete removes the participant; emptying the conversation
// cascades to its messages, and a departing admin is replaced by the
// earliest-joined remaining participant. All of it is one transaction.
func (s *MembershipService) LeaveOrDelete(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) (repositories.Removal, error) {
	unlock := s.locks.lock(conversationID)
	defer unlock()

	return s.conversations.RemoveParticipant(conversationID, userID)
}
