package thread

import (
	"strings"
	"time"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// ParticipantLimit is the number of participants in a thread. Threads are
// strictly two-party conversations.
const ParticipantLimit = 2

// Thread is a conversation container between exactly two users. For any
// pair of distinct users at most one thread exists; PairKey is the
// normalized form of the pair that the store enforces uniqueness on.
type Thread struct {
	id           uuid.UUID
	participants [ParticipantLimit]uuid.UUID
	createdAt    time.Time
	updatedAt    time.Time
}

// NewThread creates a thread between two distinct users.
func NewThread(a, b uuid.UUID) (*Thread, error) {
	if a.IsZero() || b.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if a == b {
		return nil, errs.ErrInvalidInput
	}

	now := time.Now().UTC()
	return &Thread{
		id:           uuid.NewUUID(),
		participants: [ParticipantLimit]uuid.UUID{a, b},
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Thread from persisted state.
func Reconstruct(id uuid.UUID, participants [ParticipantLimit]uuid.UUID, createdAt, updatedAt time.Time) *Thread {
	return &Thread{
		id:           id,
		participants: participants,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// PairKey returns the order-independent key identifying the participant
// pair. Two threads share a PairKey iff they contain exactly the same two
// users, which makes a unique index on it the pair-uniqueness constraint.
func PairKey(a, b uuid.UUID) string {
	if b.String() < a.String() {
		a, b = b, a
	}
	return a.String() + "|" + b.String()
}

// ParsePairKey splits a pair key back into its two user IDs.
func ParsePairKey(key string) (uuid.UUID, uuid.UUID, error) {
	parts := strings.SplitN(key, "|", ParticipantLimit)
	if len(parts) != ParticipantLimit {
		return "", "", errs.ErrInvalidInput
	}
	a, err := uuid.ParseUUID(parts[0])
	if err != nil {
		return "", "", errs.ErrInvalidInput
	}
	b, err := uuid.ParseUUID(parts[1])
	if err != nil {
		return "", "", errs.ErrInvalidInput
	}
	return a, b, nil
}

// HasParticipant reports whether the user belongs to the thread.
func (t *Thread) HasParticipant(userID uuid.UUID) bool {
	return t.participants[0] == userID || t.participants[1] == userID
}

// Touch bumps the thread's updated_at. Called when a new message arrives.
func (t *Thread) Touch(at time.Time) {
	t.updatedAt = at.UTC()
}

// ID returns the thread ID.
func (t *Thread) ID() uuid.UUID {
	return t.id
}

// Participants returns the two participant user IDs.
func (t *Thread) Participants() [ParticipantLimit]uuid.UUID {
	return t.participants
}

// PairKey returns the normalized participant-pair key of this thread.
func (t *Thread) PairKey() string {
	return PairKey(t.participants[0], t.participants[1])
}

// CreatedAt returns the creation time.
func (t *Thread) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns the last activity bump time.
func (t *Thread) UpdatedAt() time.Time {
	return t.updatedAt
}
