package user

import (
	"time"
	"unicode/utf8"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MaxUsernameLength is the maximum allowed username length, in
// characters rather than bytes.
const MaxUsernameLength = 150

// User is a registered account. The chat core never mutates users; it
// reads them for display and participant membership checks.
type User struct {
	id           uuid.UUID
	username     string
	passwordHash string
	createdAt    time.Time
}

// NewUser creates a new user with an already-hashed password.
func NewUser(username, passwordHash string) (*User, error) {
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, errs.ErrInvalidInput
	}
	if passwordHash == "" {
		return nil, errs.ErrInvalidInput
	}

	return &User{
		id:           uuid.NewUUID(),
		username:     username,
		passwordHash: passwordHash,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a User from persisted state.
func Reconstruct(id uuid.UUID, username, passwordHash string, createdAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user ID.
func (u *User) ID() uuid.UUID {
	return u.id
}

// Username returns the unique username.
func (u *User) Username() string {
	return u.username
}

// PasswordHash returns the stored password hash.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns the registration time.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}
