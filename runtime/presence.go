package runtime

import (
	"log/slog"
	"sync"
	"time"

	"chat-engine/domain"
	"chat-engine/domain/event"
	"chat-engine/repositories"
)

// PresenceTracker derives online/offline state from live connection
// counts. A user is online iff at least one connection is registered:
// closing one session while others remain open never flips the user
// offline. Exactly one event is produced per transition.
type PresenceTracker struct {
	mu     sync.Mutex
	counts map[domain.UserID]int
	repo   repositories.IPresenceRepository
	log    *slog.Logger
	now    func() time.Time
}

func NewPresenceTracker(repo repositories.IPresenceRepository, log *slog.Logger) *PresenceTracker {
	return &PresenceTracker{
		counts: make(map[domain.UserID]int),
		repo:   repo,
		log:    log,
		now:    time.Now,
	}
}

// Register counts a new connection for the user. On a zero-to-one
// transition it persists the online state and returns the
// presence-changed event to broadcast; otherwise it returns nil.
func (t *PresenceTracker) Register(identity domain.Identity) (*event.PresenceChanged, error) {
	t.mu.Lock()
	t.counts[identity.UserID]++
	first := t.counts[identity.UserID] == 1
	t.mu.Unlock()

	if !first {
		return nil, nil
	}
	presence := domain.Presence{
		UserID:   identity.UserID,
		Online:   true,
		LastSeen: t.now().UTC(),
	}
	if err := t.repo.Set(presence); err != nil {
		return nil, err
	}
	t.log.Debug("user online", "user_id", identity.UserID)
	return &event.PresenceChanged{Presence: presence, Username: identity.Username}, nil
}

// Unregister counts a closed connection. Only when the user's count
// returns to zero does it persist the offline state and return the
// presence-changed event.
func (t *PresenceTracker) Unregister(identity domain.Identity) (*event.PresenceChanged, error) {
	t.mu.Lock()
	if t.counts[identity.UserID] > 0 {
		t.counts[identity.UserID]--
	}
	last := t.counts[identity.UserID] == 0
	if last {
		delete(t.counts, identity.UserID)
	}
	t.mu.Unlock()

	if !last {
		return nil, nil
	}
	presence := domain.Presence{
		UserID:   identity.UserID,
		Online:   false,
		LastSeen: t.now().UTC(),
	}
	if err := t.repo.Set(presence); err != nil {
		return nil, err
	}
	t.log.Debug("user offline", "user_id", identity.UserID)
	return &event.PresenceChanged{Presence: presence, Username: identity.Username}, nil
}
