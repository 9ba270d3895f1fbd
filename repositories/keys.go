package repositories

import (
	"fmt"

	"chat-engine/domain"
)

// Key layout. Message keys embed a 19-digit zero-padded timestamp and
// id so a prefix scan yields (CreatedAt, ID) ascending lexicographic
// order; the id suffix disambiguates two messages written in the same
// nanosecond.
//
//	conv:<id>                      conversation record
//	pair:<lo>:<hi>                 private-pair index -> conversation id
//	msg:<conv>:<ts>:<id>           message record
//	msgix:<id>                     message id -> full message key
//	presence:<user>                durable presence record
//	user:<user>                    public profile record

func conversationKey(id domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("conv:%d", id))
}

// privatePairKey is order-insensitive: (u1,u2) and (u2,u1) map to the
// same key, which is what makes FindOrCreatePrivate idempotent.
func privatePairKey(u1, u2 domain.UserID) []byte {
	lo, hi := u1, u2
	if hi < lo {
		lo, hi = hi, lo
	}
	return []byte(fmt.Sprintf("pair:%d:%d", lo, hi))
}

func messageKey(conversationID domain.ConversationID, createdAtNano int64, id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msg:%d:%019d:%019d", conversationID, createdAtNano, id))
}

func messagePrefix(conversationID domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("msg:%d:", conversationID))
}

func messageIndexKey(id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msgix:%d", id))
}

func presenceKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("presence:%d", id))
}

func userKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("user:%d", id))
}
