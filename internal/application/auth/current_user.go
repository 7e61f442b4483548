package auth

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// CurrentUserQuery loads the caller's own account.
type CurrentUserQuery struct {
	UserID uuid.UUID
}

// CurrentUserUseCase resolves the authenticated caller's account view.
type CurrentUserUseCase struct {
	userRepo UserRepository
}

// NewCurrentUserUseCase creates a new CurrentUserUseCase.
func NewCurrentUserUseCase(userRepo UserRepository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: userRepo}
}

// Execute loads the caller's account. A stale token whose subject no
// longer exists yields errs.ErrNotFound.
func (uc *CurrentUserUseCase) Execute(ctx context.Context, query CurrentUserQuery) (User, error) {
	if query.UserID.IsZero() {
		return User{}, errs.ErrInvalidInput
	}

	usr, err := uc.userRepo.FindByID(ctx, query.UserID)
	if err != nil {
		return User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return User{
		ID:        usr.ID(),
		Username:  usr.Username(),
		CreatedAt: usr.CreatedAt(),
	}, nil
}
