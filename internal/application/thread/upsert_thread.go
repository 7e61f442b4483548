package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
)

// UpsertThreadUseCase finds or creates the unique thread between the
// caller and another user.
type UpsertThreadUseCase struct {
	threadRepo Repository
	users      UserDirectory
}

// NewUpsertThreadUseCase creates a new UpsertThreadUseCase.
func NewUpsertThreadUseCase(threadRepo Repository, users UserDirectory) *UpsertThreadUseCase {
	return &UpsertThreadUseCase{
		threadRepo: threadRepo,
		users:      users,
	}
}

// Execute resolves the thread for the caller/participant pair. It fails
// with errs.ErrNotFound when the other user does not exist or equals the
// caller (self-threading is forbidden and indistinguishable from a
// missing user). The find and create race is settled by the store's pair
// uniqueness constraint, so two concurrent upserts converge on one thread.
func (uc *UpsertThreadUseCase) Execute(ctx context.Context, cmd UpsertThreadCommand) (*Thread, error) {
	if cmd.CallerID.IsZero() || cmd.ParticipantID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if cmd.ParticipantID == cmd.CallerID {
		return nil, errs.ErrNotFound
	}

	if _, err := uc.users.FindByID(ctx, cmd.ParticipantID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve participant: %w", err)
	}

	th, err := uc.threadRepo.FindByParticipantPair(ctx, cmd.CallerID, cmd.ParticipantID)
	if err == nil {
		return th, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to find thread: %w", err)
	}

	th, err = uc.threadRepo.Create(ctx, cmd.CallerID, cmd.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return th, nil
}
