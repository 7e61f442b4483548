package message

import (
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// CreateMessageCommand posts a message to a thread the caller belongs to.
type CreateMessageCommand struct {
	CallerID uuid.UUID
	ThreadID uuid.UUID
	Text     string
}

// ReadMessageCommand marks a received message as read.
type ReadMessageCommand struct {
	CallerID  uuid.UUID
	MessageID uuid.UUID
}
