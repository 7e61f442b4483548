package auth

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
)

// LogoutUseCase revokes the caller's refresh token.
type LogoutUseCase struct {
	tokens RefreshTokenStore
}

// NewLogoutUseCase creates a new LogoutUseCase.
func NewLogoutUseCase(tokens RefreshTokenStore) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens}
}

// Execute deletes the stored refresh token. Access tokens already issued
// stay valid until they expire.
func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if cmd.UserID.IsZero() {
		return errs.ErrInvalidInput
	}

	if err := uc.tokens.DeleteRefreshToken(ctx, cmd.UserID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}
