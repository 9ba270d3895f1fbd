//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"chat-engine/domain"
)

type IMessageRepository interface {
	Create(message domain.Message) error
	Get(id domain.MessageID) (domain.Message, error)
	Update(message domain.Message) error
	Page(conversationID domain.ConversationID, limit, page int) ([]domain.Message, error)
	MarkRead(conversationID domain.ConversationID, readerID domain.UserID) (int, error)
}

type MessageRepository struct {
	store *Store
	log   *slog.Logger
}

func NewMessageRepository(store *Store, log *slog.Logger) *MessageRepository {
	return &MessageRepository{store: store, log: log}
}

// Create persists the message and refreshes the conversation summary
// (LastMessageID, UpdatedAt) in the same transaction. A crash cannot
// leave a message recorded with a stale summary.
func (m *MessageRepository) Create(message domain.Message) error {
	err := m.store.db.Update(func(txn *badger.Txn) error {
		var rec conversationRecord
		if err := getRecord(txn, conversationKey(message.ConversationID), &rec); err != nil {
			return err
		}

		key := messageKey(message.ConversationID, message.CreatedAt.UnixNano(), message.ID)
		if err := putRecord(txn, key, fromMessage(message)); err != nil {
			return err
		}
		if err := txn.Set(messageIndexKey(message.ID), key); err != nil {
			return err
		}

		rec.LastMessageID = int64(message.ID)
		rec.UpdatedAt = message.CreatedAt.UnixNano()
		return putRecord(txn, conversationKey(message.ConversationID), rec)
	})
	return storageErr(err)
}

// Get returns the stored message as-is, without the soft-delete
// placeholder. Read paths facing users go through domain.Message.ForDisplay.
func (m *MessageRepository) Get(id domain.MessageID) (domain.Message, error) {
	var rec messageRecord
	err := m.store.db.View(func(txn *badger.Txn) error {
		key, err := resolveMessageKey(txn, id)
		if err != nil {
			return err
		}
		return getRecord(txn, key, &rec)
	})
	if err != nil {
		return domain.Message{}, storageErr(err)
	}
	return toMessage(rec), nil
}

// Update rewrites a message in place. CreatedAt never changes, so the
// time-ordered key stays stable.
func (m *MessageRepository) Update(message domain.Message) error {
	err := m.store.db.Update(func(txn *badger.Txn) error {
		key, err := resolveMessageKey(txn, message.ID)
		if err != nil {
			return err
		}
		return putRecord(txn, key, fromMessage(message))
	})
	return storageErr(err)
}

// Page returns the requested page newest-first. Pages are 1-indexed;
// offset = (page-1)*limit. Thanks to the padded timestamp in the key a
// reverse prefix scan walks messages in descending time order.
func (m *MessageRepository) Page(conversationID domain.ConversationID, limit, page int) ([]domain.Message, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var messages []domain.Message
	err := m.store.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key for this conversation,
		// then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		skipped := 0
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(messages) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var rec messageRecord
				if err := decode(value, &rec); err != nil {
					return err
				}
				messages = append(messages, toMessage(rec))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return messages, nil
}

// MarkRead bulk-flips IsRead on every unread message in the
// conversation authored by someone other than the reader. This is the
// coarse single-flag model: one acknowledgement from any non-author
// marks the message read, with no per-recipient receipts.
func (m *MessageRepository) MarkRead(conversationID domain.ConversationID, readerID domain.UserID) (int, error) {
	flipped := 0
	err := m.store.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)

		type pending struct {
			key []byte
			rec messageRecord
		}
		var updates []pending
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var rec messageRecord
			err := item.Value(func(value []byte) error {
				return decode(value, &rec)
			})
			if err != nil {
				it.Close()
				return err
			}
			if rec.IsRead || domain.UserID(rec.AuthorID) == readerID {
				continue
			}
			rec.IsRead = true
			updates = append(updates, pending{key: item.KeyCopy(nil), rec: rec})
		}
		it.Close()

		for _, u := range updates {
			if err := putRecord(txn, u.key, u.rec); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr(err)
	}
	return flipped, nil
}

func resolveMessageKey(txn *badger.Txn, id domain.MessageID) ([]byte, error) {
	item, err := txn.Get(messageIndexKey(id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
