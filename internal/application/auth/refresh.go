package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
)

// RefreshUseCase rotates a valid refresh token into a fresh token pair.
type RefreshUseCase struct {
	userRepo UserRepository
	issuer   TokenIssuer
	tokens   RefreshTokenStore
}

// NewRefreshUseCase creates a new RefreshUseCase.
func NewRefreshUseCase(
	userRepo UserRepository,
	issuer TokenIssuer,
	tokens RefreshTokenStore,
) *RefreshUseCase {
	return &RefreshUseCase{userRepo: userRepo, issuer: issuer, tokens: tokens}
}

// Execute verifies the refresh token against both its signature and the
// stored copy, then issues and stores a new pair. Any mismatch fails
// with errs.ErrAuthenticationFailed.
func (uc *RefreshUseCase) Execute(ctx context.Context, cmd RefreshCommand) (LoginResult, error) {
	if cmd.RefreshToken == "" {
		return LoginResult{}, errs.ErrAuthenticationFailed
	}

	userID, err := uc.issuer.VerifyRefreshToken(cmd.RefreshToken)
	if err != nil {
		return LoginResult{}, errs.ErrAuthenticationFailed
	}

	stored, err := uc.tokens.GetRefreshToken(ctx, userID)
	if err != nil {
		return LoginResult{}, errs.ErrAuthenticationFailed
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(cmd.RefreshToken)) != 1 {
		return LoginResult{}, errs.ErrAuthenticationFailed
	}

	usr, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return LoginResult{}, errs.ErrAuthenticationFailed
		}
		return LoginResult{}, fmt.Errorf("failed to find user: %w", err)
	}

	tokens, err := issueTokenPair(ctx, uc.issuer, uc.tokens, usr)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		User: User{
			ID:        usr.ID(),
			Username:  usr.Username(),
			CreatedAt: usr.CreatedAt(),
		},
		Tokens: tokens,
	}, nil
}
