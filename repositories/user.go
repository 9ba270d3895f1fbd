//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"github.com/dgraph-io/badger/v4"

	"chat-engine/domain"
)

type IUserRepository interface {
	Put(profile domain.Profile) error
	PublicProfile(id domain.UserID) (domain.Profile, error)
}

// UserRepository is the user-directory lookup backing message
// enrichment. It only carries the public profile fields.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Put(profile domain.Profile) error {
	err := r.store.db.Update(func(txn *badger.Txn) error {
		return putRecord(txn, userKey(profile.ID), userRecord{
			ID:       int64(profile.ID),
			Username: profile.Username,
			Avatar:   profile.Avatar,
		})
	})
	return storageErr(err)
}

func (r *UserRepository) PublicProfile(id domain.UserID) (domain.Profile, error) {
	var rec userRecord
	err := r.store.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, userKey(id), &rec)
	})
	if err != nil {
		return domain.Profile{}, storageErr(err)
	}
	return domain.Profile{
		ID:       domain.UserID(rec.ID),
		Username: rec.Username,
		Avatar:   rec.Avatar,
	}, nil
}
