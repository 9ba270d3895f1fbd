package services

import (
	"sync"

	"chat-engine/domain"
)

// conversationLocks serializes operations targeting the same
// conversation: concurrent leaves racing past each other could corrupt
// the single-admin rule. Entries are never evicted;
// the map is bounded by the conversations a process touches.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[domain.ConversationID]*sync.Mutex
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{locks: make(map[domain.ConversationID]*sync.Mutex)}
}

// lock acquires the conversation's mutex and returns the unlock func.
func (l *conversationLocks) lock(id domain.ConversationID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
