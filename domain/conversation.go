// Package domain contains core concepts of the messaging engine.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"time"
)

type UserID int64

type ConversationID int64

// Participant is a (user, conversation) membership record.
type Participant struct {
	UserID   UserID
	IsAdmin  bool
	JoinedAt time.Time
}

// Conversation holds the participant set and the summary fields kept in
// sync with its newest message. Invariants while the conversation exists:
// the participant set is non-empty, a private conversation has exactly
// two distinct participants, and a group with remaining participants has
// exactly one admin.
type Conversation struct {
	ID            ConversationID
	Name          string
	IsGroup       bool
	Participants  []Participant
	LastMessageID MessageID // zero means no message yet
	UpdatedAt     time.Time
}

func (c Conversation) HasParticipant(id UserID) bool {
	for _, p := range c.Participants {
		if p.UserID == id {
			return true
		}
	}
	return false
}

func (c Conversation) IsAdmin(id UserID) bool {
	for _, p := range c.Participants {
		if p.UserID == id {
			return p.IsAdmin
		}
	}
	return false
}

// RemoveParticipant drops the membership record of the given user.
// It reports whether the user was a participant at all.
func (c *Conversation) RemoveParticipant(id UserID) bool {
	for i, p := range c.Participants {
		if p.UserID == id {
			c.Participants = append(c.Participants[:i], c.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// PromoteEarliest flags the remaining participant with the earliest
// JoinedAt as admin. JoinedAt is unique per insertion order, so the
// successor is deterministic. Returns the promoted user id.
func (c *Conversation) PromoteEarliest() (UserID, bool) {
	if len(c.Participants) == 0 {
		return 0, false
	}
	earliest := 0
	for i := range c.Participants {
		if c.Participants[i].JoinedAt.Before(c.Participants[earliest].JoinedAt) {
			earliest = i
		}
	}
	c.Participants[earliest].IsAdmin = true
	return c.Participants[earliest].UserID, true
}

func (c Conversation) HasAdmin() bool {
	for _, p := range c.Participants {
		if p.IsAdmin {
			return true
		}
	}
	return false
}
