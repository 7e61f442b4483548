package auth

import (
	"context"
	"time"

	domainuser "github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// UserRepository persists accounts.
// Declared on the consumer side per project guidelines.
type UserRepository interface {
	// Save stores a new user. A username collision yields
	// errs.ErrAlreadyExists.
	Save(ctx context.Context, u *domainuser.User) error

	// FindByID loads a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*domainuser.User, error)

	// FindByUsername loads a user by username.
	FindByUsername(ctx context.Context, username string) (*domainuser.User, error)
}

// TokenIssuer mints and verifies the signed tokens themselves.
type TokenIssuer interface {
	IssueAccessToken(userID uuid.UUID, username string) (string, error)
	IssueRefreshToken(userID uuid.UUID) (string, error)

	// VerifyRefreshToken returns the subject of a valid refresh token.
	VerifyRefreshToken(token string) (uuid.UUID, error)

	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// RefreshTokenStore tracks the currently valid refresh token per user so
// a stolen token dies with the next rotation or an explicit logout.
type RefreshTokenStore interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
	DeleteRefreshToken(ctx context.Context, userID uuid.UUID) error
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil when the password matches the hash.
	Compare(hash, password string) error
}
