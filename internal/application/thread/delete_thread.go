package thread

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
)

// DeleteThreadUseCase destroys a thread on behalf of one of its
// participants.
type DeleteThreadUseCase struct {
	threadRepo Repository
}

// NewDeleteThreadUseCase creates a new DeleteThreadUseCase.
func NewDeleteThreadUseCase(threadRepo Repository) *DeleteThreadUseCase {
	return &DeleteThreadUseCase{threadRepo: threadRepo}
}

// Execute deletes the thread and all its messages. A missing thread and a
// thread the caller does not participate in both yield errs.ErrNotFound.
// The delete is destructive and non-recoverable.
func (uc *DeleteThreadUseCase) Execute(ctx context.Context, cmd DeleteThreadCommand) error {
	if cmd.CallerID.IsZero() || cmd.ThreadID.IsZero() {
		return errs.ErrInvalidInput
	}

	if err := uc.threadRepo.DeleteOwned(ctx, cmd.ThreadID, cmd.CallerID); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}
