package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func groupOf(ids ...UserID) Conversation {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	participants := make([]Participant, 0, len(ids))
	for i, id := range ids {
		participants = append(participants, Participant{
			UserID:   id,
			IsAdmin:  i == 0,
			JoinedAt: base.Add(time.Duration(i) * time.Nanosecond),
		})
	}
	return Conversation{ID: 1, IsGroup: true, Participants: participants}
}

func TestConversation_HasParticipant(t *testing.T) {
	req := require.New(t)
	conv := groupOf(1, 2, 3)

	req.True(conv.HasParticipant(2))
	req.False(conv.HasParticipant(42))
}

func TestConversation_IsAdmin_Only_For_Flagged_Participant(t *testing.T) {
	req := require.New(t)
	conv := groupOf(1, 2, 3)

	req.True(conv.IsAdmin(1))
	req.False(conv.IsAdmin(2))
	req.False(conv.IsAdmin(42))
}

func TestConversation_RemoveParticipant(t *testing.T) {
	req := require.New(t)
	conv := groupOf(1, 2, 3)

	// When a member leaves
	removed := conv.RemoveParticipant(2)

	// Then only that membership record is gone
	req.True(removed)
	req.Len(conv.Participants, 2)
	req.False(conv.HasParticipant(2))
	req.True(conv.HasParticipant(1))
	req.True(conv.HasParticipant(3))

	// And removing a stranger reports false without touching the set
	req.False(conv.RemoveParticipant(42))
	req.Len(conv.Participants, 2)
}

func TestConversation_PromoteEarliest_Picks_Earliest_JoinedAt(t *testing.T) {
	req := require.New(t)
	conv := groupOf(1, 2, 3)

	// Given the admin left
	conv.RemoveParticipant(1)
	req.False(conv.HasAdmin())

	// When rotating the admin
	promoted, ok := conv.PromoteEarliest()

	// Then the earliest-joined survivor is flagged
	req.True(ok)
	req.Equal(UserID(2), promoted)
	req.True(conv.IsAdmin(2))
	req.False(conv.IsAdmin(3))
}

func TestConversation_PromoteEarliest_Empty(t *testing.T) {
	req := require.New(t)
	conv := Conversation{IsGroup: true}

	_, ok := conv.PromoteEarliest()

	req.False(ok)
}
