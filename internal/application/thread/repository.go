package thread

import (
	"context"

	"github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Repository is the thread store as seen by the use cases.
// Declared on the consumer side; implemented by the MongoDB layer.
type Repository interface {
	// FindByParticipantPair returns the thread containing exactly the two
	// given users, hydrated with participants sorted by username.
	// Returns errs.ErrNotFound when no such thread exists.
	FindByParticipantPair(ctx context.Context, a, b uuid.UUID) (*Thread, error)

	// Create inserts the thread for the pair and returns it hydrated.
	// The store enforces pair uniqueness; when a concurrent upsert wins
	// the race, Create returns the existing thread instead of a duplicate.
	Create(ctx context.Context, a, b uuid.UUID) (*Thread, error)

	// DeleteOwned deletes the thread and cascades to its messages, but
	// only when participantID is a member. Returns errs.ErrNotFound when
	// the thread is absent or the user is not a participant.
	DeleteOwned(ctx context.Context, threadID, participantID uuid.UUID) error

	// Find returns the filtered, ordered, paginated thread page.
	Find(ctx context.Context, f Filters) ([]Thread, error)

	// Count returns the total matching threads after filtering, before
	// pagination.
	Count(ctx context.Context, f Filters) (int, error)
}

// UserDirectory resolves users for the other-participant existence check.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// UnreadCounter computes the caller's aggregate unread count: messages in
// the user's threads that are unread and not authored by the user.
type UnreadCounter interface {
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error)
}
