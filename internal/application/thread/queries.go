package thread

import (
	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Ordering is a thread listing sort key. The leading "-" marks descending
// order. last_message_sent_at is derived per thread as the max created_at
// of its messages, with message-less threads sorting as null.
type Ordering string

// Supported thread orderings.
const (
	OrderingCreatedAtAsc  Ordering = "created_at"
	OrderingCreatedAtDesc Ordering = "-created_at"

	OrderingUpdatedAtAsc  Ordering = "updated_at"
	OrderingUpdatedAtDesc Ordering = "-updated_at"

	OrderingLastMessageSentAtAsc  Ordering = "last_message_sent_at"
	OrderingLastMessageSentAtDesc Ordering = "-last_message_sent_at"

	DefaultOrdering = OrderingCreatedAtDesc
)

// ParseOrdering validates a raw ordering value. Empty input yields the
// default (created_at descending).
func ParseOrdering(raw string) (Ordering, bool) {
	switch o := Ordering(raw); o {
	case "":
		return DefaultOrdering, true
	case OrderingCreatedAtAsc, OrderingCreatedAtDesc,
		OrderingUpdatedAtAsc, OrderingUpdatedAtDesc,
		OrderingLastMessageSentAtAsc, OrderingLastMessageSentAtDesc:
		return o, true
	default:
		return "", false
	}
}

// Field returns the sort key without the direction marker.
func (o Ordering) Field() string {
	if o.Descending() {
		return string(o)[1:]
	}
	return string(o)
}

// Descending reports whether the ordering is descending.
func (o Ordering) Descending() bool {
	return len(o) > 0 && o[0] == '-'
}

// ListThreadsQuery lists threads with optional participant filtering.
// The base set is all threads, not only the caller's: the caller identity
// is used for the unread aggregate only. ParticipantIDs keeps threads
// where at least one participant is in the set (inclusive OR).
type ListThreadsQuery struct {
	CallerID       uuid.UUID
	ParticipantIDs []uuid.UUID
	Page           shared.PageRequest
	Ordering       Ordering
}

// Filters is the repository-level shape of a thread listing: filter,
// order and paginate are applied to the query in that fixed sequence.
type Filters struct {
	ParticipantIDs []uuid.UUID
	Ordering       Ordering
	Offset         int
	Limit          int
}
