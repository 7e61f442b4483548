package shared

import (
	"context"
	"errors"

	"github.com/couriermsg/courier/internal/domain/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// ErrUserIDNotFound is returned when no caller identity is present in the context.
var ErrUserIDNotFound = errors.New("user ID not found in context")

// WithUserID stores the authenticated caller's user ID in the context.
// The auth middleware puts it there; core operations receive the caller
// explicitly and never parse credentials themselves.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID extracts the authenticated caller's user ID from the context.
func GetUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID.IsZero() {
		return "", ErrUserIDNotFound
	}
	return userID, nil
}
