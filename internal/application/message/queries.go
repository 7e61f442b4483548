package message

import (
	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Ordering is a message listing sort key. The leading "-" marks
// descending order.
type Ordering string

// Supported message orderings.
const (
	OrderingCreatedAtAsc  Ordering = "created_at"
	OrderingCreatedAtDesc Ordering = "-created_at"

	DefaultOrdering = OrderingCreatedAtDesc
)

// ParseOrdering validates a raw ordering value. Empty input yields the
// default (created_at descending).
func ParseOrdering(raw string) (Ordering, bool) {
	switch o := Ordering(raw); o {
	case "":
		return DefaultOrdering, true
	case OrderingCreatedAtAsc, OrderingCreatedAtDesc:
		return o, true
	default:
		return "", false
	}
}

// Descending reports whether the ordering is descending.
func (o Ordering) Descending() bool {
	return len(o) > 0 && o[0] == '-'
}

// ListMessagesQuery lists messages in a thread. Text filters by
// case-insensitive substring containment, SenderID by exact match.
// Membership of the caller is not enforced at this layer; the caller
// context is expected to have been validated upstream.
type ListMessagesQuery struct {
	CallerID uuid.UUID
	ThreadID uuid.UUID
	Text     string
	SenderID uuid.UUID
	Page     shared.PageRequest
	Ordering Ordering
}

// Filters is the repository-level shape of a message listing.
type Filters struct {
	Text     string
	SenderID uuid.UUID
	Ordering Ordering
	Offset   int
	Limit    int
}
