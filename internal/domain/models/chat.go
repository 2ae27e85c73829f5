package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one question/answer pair. Turns are never edited once created.
type ChatTurn struct {
	Question string `json:"question" bson:"question" firestore:"question"`
	Answer   string `json:"answer" bson:"answer" firestore:"answer"`
}

// ChatHistory is the ordered list of turns of a session.
type ChatHistory []ChatTurn

// Clone returns a copy that shares no backing array with h.
// A nil or empty history clones to an empty, non-nil slice.
func (h ChatHistory) Clone() ChatHistory {
	out := make(ChatHistory, len(h))
	copy(out, h)
	return out
}

// ChatSnapshot is a full copy of a chat history as of Timestamp.
// Snapshots are append-only: every write produces a new one.
type ChatSnapshot struct {
	ID        string      `json:"id" bson:"_id" firestore:"-"`
	UserID    string      `json:"user_id" bson:"user_id" firestore:"-"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp" firestore:"timestamp"`
	Chat      ChatHistory `json:"chat" bson:"chat" firestore:"chat"`
}

// ReloadMode selects how a new session is seeded from stored snapshots.
type ReloadMode string

const (
	// ReloadLast seeds from the most recent snapshot only.
	ReloadLast ReloadMode = "last"
	// ReloadConcat concatenates every snapshot's chat in timestamp order.
	ReloadConcat ReloadMode = "concat"
)

// Seed derives the starting history for a session from its stored snapshots,
// which must already be in ascending timestamp order.
func (m ReloadMode) Seed(snapshots []ChatSnapshot) ChatHistory {
	if len(snapshots) == 0 {
		return ChatHistory{}
	}
	if m == ReloadConcat {
		var out ChatHistory
		for _, s := range snapshots {
			out = append(out, s.Chat...)
		}
		return out.Clone()
	}
	return snapshots[len(snapshots)-1].Chat.Clone()
}

// NewChatSnapshot builds the record for one append. IDs are UUIDv7 so they
// sort in creation order, which breaks timestamp ties.
func NewChatSnapshot(userID string, history ChatHistory, at time.Time) ChatSnapshot {
	return ChatSnapshot{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Timestamp: at.UTC(),
		Chat:      history.Clone(),
	}
}
