package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

const defaultKeyPrefix = "auth:refresh_token:"

// TokenStore keeps the single valid refresh token per user in Redis.
// Issuing a new token overwrites the previous one, so refresh tokens
// rotate on every use.
type TokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// TokenStoreConfig contains configuration for TokenStore.
type TokenStoreConfig struct {
	Client    *redis.Client
	KeyPrefix string
}

// NewTokenStore creates a new Redis-based token store.
func NewTokenStore(cfg TokenStoreConfig) *TokenStore {
	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	return &TokenStore{
		client:    cfg.Client,
		keyPrefix: keyPrefix,
	}
}

func (s *TokenStore) tokenKey(userID uuid.UUID) string {
	return s.keyPrefix + userID.String()
}

// StoreRefreshToken stores a refresh token for a user with the given TTL.
// The key expires with the token, so stale entries clean themselves up.
func (s *TokenStore) StoreRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
	refreshToken string,
	ttl time.Duration,
) error {
	if userID.IsZero() {
		return errs.ErrInvalidInput
	}
	if refreshToken == "" {
		return errs.ErrInvalidInput
	}

	if err := s.client.Set(ctx, s.tokenKey(userID), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves the stored refresh token for a user. A
// missing or expired token yields errs.ErrNotFound.
func (s *TokenStore) GetRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID.IsZero() {
		return "", errs.ErrInvalidInput
	}

	token, err := s.client.Get(ctx, s.tokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errs.ErrNotFound
		}
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}

	return token, nil
}

// DeleteRefreshToken removes a user's refresh token. Deleting a token
// that is already gone is not an error.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, userID uuid.UUID) error {
	if userID.IsZero() {
		return errs.ErrInvalidInput
	}

	if err := s.client.Del(ctx, s.tokenKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}
