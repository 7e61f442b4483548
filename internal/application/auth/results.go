package auth

import (
	"time"

	"github.com/couriermsg/courier/internal/domain/uuid"
)

// User is the account view returned by auth operations.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}

// TokenPair carries an access token and the refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// LoginResult is returned by login and refresh.
type LoginResult struct {
	User   User
	Tokens TokenPair
}
