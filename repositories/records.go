package repositories

import (
	"time"

	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"

	"chat-engine/domain"
)

// Disk records are the msgpack-encoded shapes stored in Badger, kept
// separate from the domain structs so the storage encoding can evolve
// without touching the domain.

type participantRecord struct {
	UserID   int64 `msgpack:"u"`
	IsAdmin  bool  `msgpack:"a"`
	JoinedAt int64 `msgpack:"j"` // unix nanoseconds
}

type conversationRecord struct {
	ID            int64               `msgpack:"id"`
	Name          string              `msgpack:"n"`
	IsGroup       bool                `msgpack:"g"`
	Participants  []participantRecord `msgpack:"p"`
	LastMessageID int64               `msgpack:"lm"`
	UpdatedAt     int64               `msgpack:"up"`
	// PairLo/PairHi remember the original private pair so the pair
	// index can be cleaned up at cascade time even after one side has
	// already left. Zero for groups.
	PairLo int64 `msgpack:"pl"`
	PairHi int64 `msgpack:"ph"`
}

type messageRecord struct {
	ID             int64  `msgpack:"id"`
	ConversationID int64  `msgpack:"c"`
	AuthorID       int64  `msgpack:"au"`
	Content        string `msgpack:"ct"`
	CreatedAt      int64  `msgpack:"at"`
	EditedAt       int64  `msgpack:"ed"` // zero when never edited
	IsDeleted      bool   `msgpack:"dl"`
	IsRead         bool   `msgpack:"rd"`
}

type presenceRecord struct {
	UserID   int64 `msgpack:"u"`
	Online   bool  `msgpack:"o"`
	LastSeen int64 `msgpack:"ls"`
}

type userRecord struct {
	ID       int64  `msgpack:"id"`
	Username string `msgpack:"un"`
	Avatar   string `msgpack:"av"`
}

func fromConversation(c domain.Conversation) conversationRecord {
	return conversationRecord{
		ID:      int64(c.ID),
		Name:    c.Name,
		IsGroup: c.IsGroup,
		Participants: lo.Map(c.Participants, func(p domain.Participant, _ int) participantRecord {
			return participantRecord{
				UserID:   int64(p.UserID),
				IsAdmin:  p.IsAdmin,
				JoinedAt: p.JoinedAt.UnixNano(),
			}
		}),
		LastMessageID: int64(c.LastMessageID),
		UpdatedAt:     c.UpdatedAt.UnixNano(),
	}
}

func toConversation(r conversationRecord) domain.Conversation {
	return domain.Conversation{
		ID:      domain.ConversationID(r.ID),
		Name:    r.Name,
		IsGroup: r.IsGroup,
		Participants: lo.Map(r.Participants, func(p participantRecord, _ int) domain.Participant {
			return domain.Participant{
				UserID:   domain.UserID(p.UserID),
				IsAdmin:  p.IsAdmin,
				JoinedAt: time.Unix(0, p.JoinedAt).UTC(),
			}
		}),
		LastMessageID: domain.MessageID(r.LastMessageID),
		UpdatedAt:     time.Unix(0, r.UpdatedAt).UTC(),
	}
}

func fromMessage(m domain.Message) messageRecord {
	var edited int64
	if m.EditedAt != nil {
		edited = m.EditedAt.UnixNano()
	}
	return messageRecord{
		ID:             int64(m.ID),
		ConversationID: int64(m.ConversationID),
		AuthorID:       int64(m.AuthorID),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt.UnixNano(),
		EditedAt:       edited,
		IsDeleted:      m.IsDeleted,
		IsRead:         m.IsRead,
	}
}

func toMessage(r messageRecord) domain.Message {
	var edited *time.Time
	if r.EditedAt != 0 {
		t := time.Unix(0, r.EditedAt).UTC()
		edited = &t
	}
	return domain.Message{
		ID:             domain.MessageID(r.ID),
		ConversationID: domain.ConversationID(r.ConversationID),
		AuthorID:       domain.UserID(r.AuthorID),
		Content:        r.Content,
		CreatedAt:      time.Unix(0, r.CreatedAt).UTC(),
		EditedAt:       edited,
		IsDeleted:      r.IsDeleted,
		IsRead:         r.IsRead,
	}
}

func encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
