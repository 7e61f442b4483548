package message

import (
	"context"

	domainmessage "github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Repository is the message store as seen by the use cases.
// Declared on the consumer side; implemented by the MongoDB layer.
type Repository interface {
	// Create persists the message and bumps the owning thread's
	// updated_at in the same transaction. It returns errs.ErrNotFound
	// when the thread is absent or the sender is not a participant.
	Create(ctx context.Context, msg *domainmessage.Message) (*Message, error)

	// MarkRead flips is_read false→true as a single compare-and-set:
	// the message must exist, the reader must be a thread participant,
	// must not be the sender, and the message must still be unread. Any
	// failed condition yields the same errs.ErrNotFound; under races at
	// most one concurrent call succeeds.
	MarkRead(ctx context.Context, messageID, readerID uuid.UUID) (*Message, error)

	// Find returns the filtered, ordered, paginated page of a thread's
	// messages.
	Find(ctx context.Context, threadID uuid.UUID, f Filters) ([]Message, error)

	// Count returns the total matching messages after filtering, before
	// pagination.
	Count(ctx context.Context, threadID uuid.UUID, f Filters) (int, error)

	// CountUnreadForUser computes the user's aggregate unread count:
	// messages in the user's threads with is_read false and a different
	// sender. The count never double-counts through participant fan-out.
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error)
}
