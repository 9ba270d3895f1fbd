//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chat-engine/domain"
)

type IConversationRepository interface {
	Get(id domain.ConversationID) (domain.Conversation, error)
	IsParticipant(id domain.ConversationID, userID domain.UserID) (bool, error)
	FindPrivate(u1, u2 domain.UserID) (domain.Conversation, bool, error)
	CreatePrivate(u1, u2 domain.UserID, now time.Time) (domain.Conversation, error)
	CreateGroup(name string, adminID domain.UserID, memberIDs []domain.UserID, now time.Time) (domain.Conversation, error)
	AddParticipant(id domain.ConversationID, userID domain.UserID, now time.Time) (domain.Conversation, error)
	RemoveParticipant(id domain.ConversationID, userID domain.UserID) (Removal, error)
}

// Removal describes what a participant removal did to the conversation.
type Removal struct {
	Conversation  domain.Conversation // state after removal; zero value when Deleted
	Deleted       bool
	PromotedAdmin *domain.UserID
}

type ConversationRepository struct {
	store *Store
	log   *slog.Logger
}

func NewConversationRepository(store *Store, log *slog.Logger) *ConversationRepository {
	return &ConversationRepository{store: store, log: log}
}

func (r *ConversationRepository) Get(id domain.ConversationID) (domain.Conversation, error) {
	var rec conversationRecord
	err := r.store.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, conversationKey(id), &rec)
	})
	if err != nil {
		return domain.Conversation{}, storageErr(err)
	}
	return toConversation(rec), nil
}

// IsParticipant is a live query against storage, no local cache.
func (r *ConversationRepository) IsParticipant(id domain.ConversationID, userID domain.UserID) (bool, error) {
	conv, err := r.Get(id)
	if err != nil {
		return false, err
	}
	return conv.HasParticipant(userID), nil
}

func (r *ConversationRepository) FindPrivate(u1, u2 domain.UserID) (domain.Conversation, bool, error) {
	var rec conversationRecord
	found := false
	err := r.store.db.View(func(txn *badger.Txn) error {
		id, err := lookupPair(txn, u1, u2)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := getRecord(txn, conversationKey(id), &rec); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.Conversation{}, false, storageErr(err)
	}
	return toConversation(rec), found, nil
}

// CreatePrivate resolves the unique non-group conversation for the pair,
// creating it when absent. The pair index lookup and the insert run in
// the same transaction, so two racing calls cannot both create one.
func (r *ConversationRepository) CreatePrivate(u1, u2 domain.UserID, now time.Time) (domain.Conversation, error) {
	var result domain.Conversation
	err := r.store.db.Update(func(txn *badger.Txn) error {
		id, err := lookupPair(txn, u1, u2)
		if err == nil {
			var rec conversationRecord
			if err := getRecord(txn, conversationKey(id), &rec); err != nil {
				return err
			}
			result = toConversation(rec)
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		newID, err := r.store.NextConversationID()
		if err != nil {
			return err
		}
		result = domain.Conversation{
			ID:      newID,
			IsGroup: false,
			Participants: []domain.Participant{
				{UserID: u1, JoinedAt: now},
				{UserID: u2, JoinedAt: now.Add(time.Nanosecond)},
			},
			UpdatedAt: now,
		}
		rec := fromConversation(result)
		rec.PairLo, rec.PairHi = int64(u1), int64(u2)
		if rec.PairHi < rec.PairLo {
			rec.PairLo, rec.PairHi = rec.PairHi, rec.PairLo
		}
		if err := putRecord(txn, conversationKey(newID), rec); err != nil {
			return err
		}
		return txn.Set(privatePairKey(u1, u2), []byte(fmt.Sprintf("%d", newID)))
	})
	if err != nil {
		return domain.Conversation{}, storageErr(err)
	}
	return result, nil
}

// CreateGroup inserts the creator once, flagged admin, followed by the
// members. JoinedAt grows by insertion order so admin rotation has a
// deterministic successor.
func (r *ConversationRepository) CreateGroup(name string, adminID domain.UserID, memberIDs []domain.UserID, now time.Time) (domain.Conversation, error) {
	participants := []domain.Participant{{UserID: adminID, IsAdmin: true, JoinedAt: now}}
	for i, id := range memberIDs {
		participants = append(participants, domain.Participant{
			UserID:   id,
			JoinedAt: now.Add(time.Duration(i+1) * time.Nanosecond),
		})
	}
	conv := domain.Conversation{
		Name:         name,
		IsGroup:      true,
		Participants: participants,
		UpdatedAt:    now,
	}
	err := r.store.db.Update(func(txn *badger.Txn) error {
		newID, err := r.store.NextConversationID()
		if err != nil {
			return err
		}
		conv.ID = newID
		return putRecord(txn, conversationKey(newID), fromConversation(conv))
	})
	if err != nil {
		return domain.Conversation{}, storageErr(err)
	}
	return conv, nil
}

// AddParticipant is a no-op when the user already belongs to the
// conversation.
func (r *ConversationRepository) AddParticipant(id domain.ConversationID, userID domain.UserID, now time.Time) (domain.Conversation, error) {
	var result domain.Conversation
	err := r.store.db.Update(func(txn *badger.Txn) error {
		var rec conversationRecord
		if err := getRecord(txn, conversationKey(id), &rec); err != nil {
			return err
		}
		conv := toConversation(rec)
		if !conv.HasParticipant(userID) {
			conv.Participants = append(conv.Participants, domain.Participant{
				UserID:   userID,
				JoinedAt: now,
			})
			out := fromConversation(conv)
			out.PairLo, out.PairHi = rec.PairLo, rec.PairHi
			if err := putRecord(txn, conversationKey(id), out); err != nil {
				return err
			}
		}
		result = conv
		return nil
	})
	if err != nil {
		return domain.Conversation{}, storageErr(err)
	}
	return result, nil
}

// RemoveParticipant runs the whole state transition atomically: the
// membership removal, the admin rotation when the departing participant
// held admin, and the cascade that purges the conversation and all its
// messages when the participant set becomes empty.
func (r *ConversationRepository) RemoveParticipant(id domain.ConversationID, userID domain.UserID) (Removal, error) {
	var result Removal
	err := r.store.db.Update(func(txn *badger.Txn) error {
		var rec conversationRecord
		if err := getRecord(txn, conversationKey(id), &rec); err != nil {
			return err
		}
		conv := toConversation(rec)
		wasAdmin := conv.IsAdmin(userID)

		if !conv.RemoveParticipant(userID) {
			return badger.ErrKeyNotFound
		}

		if len(conv.Participants) == 0 {
			if err := deleteConversationMessages(txn, id); err != nil {
				return err
			}
			if !conv.IsGroup {
				pair := privatePairKey(domain.UserID(rec.PairLo), domain.UserID(rec.PairHi))
				if err := txn.Delete(pair); err != nil {
					return err
				}
			}
			if err := txn.Delete(conversationKey(id)); err != nil {
				return err
			}
			result = Removal{Deleted: true}
			return nil
		}

		if conv.IsGroup && wasAdmin && !conv.HasAdmin() {
			if promoted, ok := conv.PromoteEarliest(); ok {
				result.PromotedAdmin = &promoted
			}
		}
		out := fromConversation(conv)
		out.PairLo, out.PairHi = rec.PairLo, rec.PairHi
		if err := putRecord(txn, conversationKey(id), out); err != nil {
			return err
		}
		result.Conversation = conv
		return nil
	})
	if err != nil {
		return Removal{}, storageErr(err)
	}
	if result.Deleted {
		r.log.Info("conversation deleted with its messages", "conversation_id", id)
	}
	return result, nil
}

// UpdateSummary is exercised by the message pipeline inside its own
// transaction; see MessageRepository.Create.

func deleteConversationMessages(txn *badger.Txn, id domain.ConversationID) error {
	prefix := messagePrefix(id)
	options := badger.DefaultIteratorOptions
	it := txn.NewIterator(options)

	var keys [][]byte
	var indexKeys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		keys = append(keys, item.KeyCopy(nil))
		err := item.Value(func(value []byte) error {
			var rec messageRecord
			if err := decode(value, &rec); err != nil {
				return err
			}
			indexKeys = append(indexKeys, messageIndexKey(domain.MessageID(rec.ID)))
			return nil
		})
		if err != nil {
			it.Close()
			return err
		}
	}
	it.Close()

	for _, key := range append(keys, indexKeys...) {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func lookupPair(txn *badger.Txn, u1, u2 domain.UserID) (domain.ConversationID, error) {
	item, err := txn.Get(privatePairKey(u1, u2))
	if err != nil {
		return 0, err
	}
	var id domain.ConversationID
	err = item.Value(func(value []byte) error {
		_, scanErr := fmt.Sscanf(string(value), "%d", &id)
		return scanErr
	})
	return id, err
}

func getRecord(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(value []byte) error {
		return decode(value, out)
	})
}

func putRecord(txn *badger.Txn, key []byte, rec any) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
