package thread

import (
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// UpsertThreadCommand finds or creates the unique thread between the
// caller and another user.
type UpsertThreadCommand struct {
	CallerID      uuid.UUID
	ParticipantID uuid.UUID
}

// DeleteThreadCommand destroys a thread the caller participates in,
// cascading to its messages.
type DeleteThreadCommand struct {
	CallerID uuid.UUID
	ThreadID uuid.UUID
}
