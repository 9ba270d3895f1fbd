package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-engine/domain"
	errs "chat-engine/errors"
	"chat-engine/mocks"
	"chat-engine/repositories"
)

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := repositories.NewStore(db)
	req.NoError(err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMessageService_CreateMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newTestStore(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	directory := mocks.NewMockUserDirectory(ctrl)
	svc := NewMessageService(store, messages, directory, slog.Default())
	ctx := context.Background()

	t.Run("should persist and enrich with the author profile", func(t *testing.T) {
		req := require.New(t)
		alice := domain.Profile{ID: 1, Username: "alice"}

		messages.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
		directory.EXPECT().PublicProfile(domain.UserID(1)).Return(alice, nil)

		message, author, err := svc.CreateMessage(ctx, 1, 7, "hello")

		req.NoError(err)
		req.NotZero(message.ID)
		req.Equal(domain.ConversationID(7), message.ConversationID)
		req.Equal(domain.UserID(1), message.AuthorID)
		req.Equal("hello", message.Content)
		req.False(message.CreatedAt.IsZero())
		req.Equal(alice, author)
	})

	t.Run("should deliver with a bare id when the directory fails", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
		directory.EXPECT().PublicProfile(domain.UserID(1)).Return(domain.Profile{}, errs.ErrNotFound)

		message, author, err := svc.CreateMessage(ctx, 1, 7, "hello")

		req.NoError(err)
		req.NotZero(message.ID)
		req.Equal(domain.Profile{ID: 1}, author)
	})

	t.Run("should refuse blank text", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Create(gomock.Any()).Times(0)

		_, _, err := svc.CreateMessage(ctx, 1, 7, "   ")

		req.ErrorIs(err, errs.ErrValidation)
	})
}

func TestMessageService_EditMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newTestStore(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	directory := mocks.NewMockUserDirectory(ctrl)
	svc := NewMessageService(store, messages, directory, slog.Default())
	ctx := context.Background()

	stored := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, Content: "tpyo", CreatedAt: time.Now().UTC()}

	t.Run("should let the author edit and stamp EditedAt", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(domain.MessageID(3)).Return(stored, nil).Times(2)
		messages.EXPECT().
			Update(gomock.Any()).
			DoAndReturn(func(m domain.Message) error {
				req.Equal("typo", m.Content)
				req.NotNil(m.EditedAt)
				return nil
			})

		edited, err := svc.EditMessage(ctx, 3, 1, "typo")

		req.NoError(err)
		req.Equal("typo", edited.Content)
		req.NotNil(edited.EditedAt)
	})

	t.Run("should refuse a non-author", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(domain.MessageID(3)).Return(stored, nil).Times(1)
		messages.EXPECT().Update(gomock.Any()).Times(0)

		_, err := svc.EditMessage(ctx, 3, 2, "hijacked")

		req.ErrorIs(err, errs.ErrAuthorization)
	})

	t.Run("should refuse blank replacement text", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(gomock.Any()).Times(0)

		_, err := svc.EditMessage(ctx, 3, 1, " ")

		req.ErrorIs(err, errs.ErrValidation)
	})

	t.Run("should report an unknown message", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(domain.MessageID(99)).Return(domain.Message{}, errs.ErrNotFound)

		_, err := svc.EditMessage(ctx, 99, 1, "anything")

		req.ErrorIs(err, errs.ErrNotFound)
	})
}

func TestMessageService_DeleteMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newTestStore(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	directory := mocks.NewMockUserDirectory(ctrl)
	svc := NewMessageService(store, messages, directory, slog.Default())
	ctx := context.Background()

	stored := domain.Message{ID: 3, ConversationID: 7, AuthorID: 1, Content: "regret", CreatedAt: time.Now().UTC()}

	t.Run("should soft delete, keeping the content in storage", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(domain.MessageID(3)).Return(stored, nil).Times(2)
		messages.EXPECT().
			Update(gomock.Any()).
			DoAndReturn(func(m domain.Message) error {
				req.True(m.IsDeleted)
				req.Equal("regret", m.Content)
				return nil
			})

		deleted, err := svc.DeleteMessage(ctx, 3, 1)

		req.NoError(err)
		req.True(deleted.IsDeleted)
	})

	t.Run("should refuse a non-author", func(t *testing.T) {
		req := require.New(t)

		messages.EXPECT().Get(domain.MessageID(3)).Return(stored, nil).Times(1)
		messages.EXPECT().Update(gomock.Any()).Times(0)

		_, err := svc.DeleteMessage(ctx, 3, 2)

		req.ErrorIs(err, errs.ErrAuthorization)
	})
}

func TestMessageService_GetMessagesByConversation_Masks_Deleted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newTestStore(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	directory := mocks.NewMockUserDirectory(ctrl)
	svc := NewMessageService(store, messages, directory, slog.Default())

	messages.EXPECT().
		Page(domain.ConversationID(7), 10, 1).
		Return([]domain.Message{
			{ID: 2, Content: "live"},
			{ID: 1, Content: "secret", IsDeleted: true},
		}, nil)

	page, err := svc.GetMessagesByConversation(context.Background(), 7, 10, 1)

	req.NoError(err)
	req.Len(page, 2)
	req.Equal("live", page[0].Content)
	req.Equal(domain.DeletedPlaceholder, page[1].Content)
}

func TestMessageService_MarkAsRead(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newTestStore(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	directory := mocks.NewMockUserDirectory(ctrl)
	svc := NewMessageService(store, messages, directory, slog.Default())

	messages.EXPECT().MarkRead(domain.ConversationID(7), domain.UserID(2)).Return(3, nil)

	count, readAt, err := svc.MarkAsRead(context.Background(), 7, 2)

	req.NoError(err)
	req.Equal(3, count)
	req.False(readAt.IsZero())
}
