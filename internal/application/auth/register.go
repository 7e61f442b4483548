package auth

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
	domainuser "github.com/couriermsg/courier/internal/domain/user"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// RegisterUseCase creates new accounts and signs them in.
type RegisterUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	tokens   RefreshTokenStore
}

// NewRegisterUseCase creates a new RegisterUseCase.
func NewRegisterUseCase(
	userRepo UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	tokens RefreshTokenStore,
) *RegisterUseCase {
	return &RegisterUseCase{userRepo: userRepo, hasher: hasher, issuer: issuer, tokens: tokens}
}

// Execute registers a user and issues the first token pair, so a fresh
// account is signed in without a separate login call. Username
// uniqueness is enforced by the store; a duplicate yields
// errs.ErrAlreadyExists.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (LoginResult, error) {
	if err := uc.validate(cmd); err != nil {
		return LoginResult{}, err
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	usr, err := domainuser.NewUser(cmd.Username, hash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	if saveErr := uc.userRepo.Save(ctx, usr); saveErr != nil {
		if errors.Is(saveErr, errs.ErrAlreadyExists) {
			return LoginResult{}, errs.ErrAlreadyExists
		}
		return LoginResult{}, fmt.Errorf("failed to save user: %w", saveErr)
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

func (uc *RegisterUseCase) validate(cmd RegisterCommand) error {
	ve := shared.NewValidationError()
	if cmd.Username == "" {
		ve.Add("username", "must not be empty")
	}
	if utf8.RuneCountInString(cmd.Username) > domainuser.MaxUsernameLength {
		ve.Add("username", fmt.Sprintf("must be at most %d characters", domainuser.MaxUsernameLength))
	}
	if utf8.RuneCountInString(cmd.Password) < MinPasswordLength {
		ve.Add("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return ve.ErrOrNil()
}
