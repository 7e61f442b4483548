package message

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
)

// ReadMessageUseCase marks a received message as read.
type ReadMessageUseCase struct {
	messageRepo Repository
}

// NewReadMessageUseCase creates a new ReadMessageUseCase.
func NewReadMessageUseCase(messageRepo Repository) *ReadMessageUseCase {
	return &ReadMessageUseCase{messageRepo: messageRepo}
}

// Execute marks the message read. The four conditions (message exists,
// caller is a thread participant, caller is not the sender, message is
// still unread) form one store-level predicate; whichever fails, the
// caller sees the same errs.ErrNotFound so nothing about thread
// membership leaks.
func (uc *ReadMessageUseCase) Execute(ctx context.Context, cmd ReadMessageCommand) (*Message, error) {
	if cmd.CallerID.IsZero() || cmd.MessageID.IsZero() {
		return nil, errs.ErrInvalidInput
	}

	msg, err := uc.messageRepo.MarkRead(ctx, cmd.MessageID, cmd.CallerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return msg, nil
}
