package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/couriermsg/courier/internal/domain/errs"
	domainuser "github.com/couriermsg/courier/internal/domain/user"
)

// LoginUseCase exchanges credentials for a token pair.
type LoginUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	tokens   RefreshTokenStore
}

// NewLoginUseCase creates a new LoginUseCase.
func NewLoginUseCase(
	userRepo UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	tokens RefreshTokenStore,
) *LoginUseCase {
	return &LoginUseCase{userRepo: userRepo, hasher: hasher, issuer: issuer, tokens: tokens}
}

// Execute verifies the credentials and issues a token pair. An unknown
// username and a wrong password both fail with
// errs.ErrAuthenticationFailed.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return LoginResult{}, errs.ErrAuthenticationFailed
	}

	usr, err := uc.userRepo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return LoginResult{}, errs.ErrAuthenticationFailed
		}
		return LoginResult{}, fmt.Errorf("failed to find user: %w", err)
	}

	if compareErr := uc.hasher.Compare(usr.PasswordHash(), cmd.Password); compareErr != nil {
		return LoginResult{}, errs.ErrAuthenticationFailed
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

// issueTokenPair mints a fresh pair and records the refresh token as the
// only valid one for the user.
func issueTokenPair(
	ctx context.Context,
	issuer TokenIssuer,
	store RefreshTokenStore,
	usr *domainuser.User,
) (TokenPair, error) {
	access, err := issuer.IssueAccessToken(usr.ID(), usr.Username())
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := issuer.IssueRefreshToken(usr.ID())
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if storeErr := store.StoreRefreshToken(ctx, usr.ID(), refresh, issuer.RefreshTokenTTL()); storeErr != nil {
		return TokenPair{}, fmt.Errorf("failed to store refresh token: %w", storeErr)
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(issuer.AccessTokenTTL().Seconds()),
	}, nil
}
