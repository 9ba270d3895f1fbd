// Package repositories is the storage layer of the engine. All records
// live in a single BadgerDB instance; multi-row mutations run inside a
// single Update transaction so partial completion cannot be observed.
package repositories

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"chat-engine/domain"
	errs "chat-engine/errors"
)

const sequenceBandwidth = 64

// Store owns the database handle and the id sequences shared by the
// repositories. Ids start at 1; zero is reserved as "absent".
type Store struct {
	db      *badger.DB
	convSeq *badger.Sequence
	msgSeq  *badger.Sequence
}

func NewStore(db *badger.DB) (*Store, error) {
	convSeq, err := db.GetSequence([]byte("seq:conversation"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("conversation sequence: %w", err)
	}
	msgSeq, err := db.GetSequence([]byte("seq:message"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &Store{db: db, convSeq: convSeq, msgSeq: msgSeq}, nil
}

// Close releases the unconsumed sequence leases back to the database.
func (s *Store) Close() error {
	if err := s.convSeq.Release(); err != nil {
		return err
	}
	return s.msgSeq.Release()
}

func (s *Store) NextConversationID() (domain.ConversationID, error) {
	n, err := s.convSeq.Next()
	if err != nil {
		return 0, storageErr(err)
	}
	return domain.ConversationID(n + 1), nil
}

func (s *Store) NextMessageID() (domain.MessageID, error) {
	n, err := s.msgSeq.Next()
	if err != nil {
		return 0, storageErr(err)
	}
	return domain.MessageID(n + 1), nil
}

// storageErr maps backing-store failures onto the error taxonomy.
// Conflicts are retryable; anything else is surfaced as a generic
// storage failure carrying the cause for server-side logs.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return errs.ErrNotFound
	case errors.Is(err, badger.ErrConflict):
		return errs.MarkRetryable(fmt.Errorf("%w: %v", errs.ErrStorage, err))
	default:
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
}
