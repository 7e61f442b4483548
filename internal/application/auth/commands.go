package auth

import "github.com/couriermsg/courier/internal/domain/uuid"

// RegisterCommand creates a new account.
type RegisterCommand struct {
	Username string
	Password string
}

// LoginCommand exchanges credentials for a token pair.
type LoginCommand struct {
	Username string
	Password string
}

// RefreshCommand exchanges a refresh token for a fresh token pair.
type RefreshCommand struct {
	RefreshToken string
}

// LogoutCommand revokes the caller's refresh token.
type LogoutCommand struct {
	UserID uuid.UUID
}
