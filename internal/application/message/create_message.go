package message

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
	domainmessage "github.com/couriermsg/courier/internal/domain/message"
)

// CreateMessageUseCase posts a new message into a thread.
type CreateMessageUseCase struct {
	messageRepo Repository
}

// NewCreateMessageUseCase creates a new CreateMessageUseCase.
func NewCreateMessageUseCase(messageRepo Repository) *CreateMessageUseCase {
	return &CreateMessageUseCase{messageRepo: messageRepo}
}

// Execute creates the message with the caller as sender. The store
// verifies thread existence and caller membership and bumps the thread's
// updated_at transactionally with the insert; a missing thread and a
// thread the caller is not in both yield errs.ErrNotFound.
func (uc *CreateMessageUseCase) Execute(ctx context.Context, cmd CreateMessageCommand) (*Message, error) {
	if cmd.CallerID.IsZero() || cmd.ThreadID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if err := uc.validate(&cmd); err != nil {
		return nil, err
	}

	msg, err := domainmessage.NewMessage(cmd.ThreadID, cmd.CallerID, cmd.Text)
	if err != nil {
		return nil, err
	}

	created, err := uc.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return created, nil
}

func (uc *CreateMessageUseCase) validate(cmd *CreateMessageCommand) error {
	ve := shared.NewValidationError()
	if cmd.Text == "" {
		ve.Add("text", "must not be empty")
	}
	if utf8.RuneCountInString(cmd.Text) > domainmessage.MaxTextLength {
		ve.Add("text", "must be at most 2048 characters")
	}
	return ve.ErrOrNil()
}
