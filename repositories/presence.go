//go:generate go run go.uber.org/mock/mockgen -source=presence.go -destination=../mocks/mock_presence_repository.go -package=mocks
package repositories

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chat-engine/domain"
)

type IPresenceRepository interface {
	Set(presence domain.Presence) error
	Get(id domain.UserID) (domain.Presence, error)
}

// PresenceRepository persists presence so lastSeen survives restarts.
type PresenceRepository struct {
	store *Store
}

func NewPresenceRepository(store *Store) *PresenceRepository {
	return &PresenceRepository{store: store}
}

func (r *PresenceRepository) Set(presence domain.Presence) error {
	err := r.store.db.Update(func(txn *badger.Txn) error {
		return putRecord(txn, presenceKey(presence.UserID), presenceRecord{
			UserID:   int64(presence.UserID),
			Online:   presence.Online,
			LastSeen: presence.LastSeen.UnixNano(),
		})
	})
	return storageErr(err)
}

// Get returns an offline zero-LastSeen presence for users never seen
// before rather than an error.
func (r *PresenceRepository) Get(id domain.UserID) (domain.Presence, error) {
	var rec presenceRecord
	err := r.store.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, presenceKey(id), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Presence{UserID: id}, nil
	}
	if err != nil {
		return domain.Presence{}, storageErr(err)
	}
	return domain.Presence{
		UserID:   domain.UserID(rec.UserID),
		Online:   rec.Online,
		LastSeen: time.Unix(0, rec.LastSeen).UTC(),
	}, nil
}
