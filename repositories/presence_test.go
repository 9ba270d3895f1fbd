package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-engine/domain"
)

func TestPresenceRepository_Roundtrip(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	repository := NewPresenceRepository(store)
	lastSeen := time.Now().UTC()

	req.NoError(repository.Set(domain.Presence{UserID: 1, Online: true, LastSeen: lastSeen}))

	presence, err := repository.Get(1)
	req.NoError(err)
	req.True(presence.Online)
	req.Equal(lastSeen, presence.LastSeen)
}

func TestPresenceRepository_Unknown_User_Is_Offline(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	repository := NewPresenceRepository(store)

	// A user never seen resolves to offline with a zero LastSeen,
	// not to an error.
	presence, err := repository.Get(999)
	req.NoError(err)
	req.False(presence.Online)
	req.True(presence.LastSeen.IsZero())
	req.Equal(domain.UserID(999), presence.UserID)
}
