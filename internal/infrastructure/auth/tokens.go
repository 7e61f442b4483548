package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Token usage discriminator carried in the "typ" claim. It stops a
// refresh token from being accepted where an access token is expected
// and vice versa.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

const issuerName = "courier"

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	jwt.RegisteredClaims

	TokenType string `json:"typ"`
	Username  string `json:"username,omitempty"`
}

// TokenManager mints and verifies HMAC-signed JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// TokenManagerConfig contains configuration for TokenManager.
type TokenManagerConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &TokenManager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// IssueAccessToken mints a short-lived access token for a user.
func (m *TokenManager) IssueAccessToken(userID uuid.UUID, username string) (string, error) {
	return m.issue(userID, username, tokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for a user.
func (m *TokenManager) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return m.issue(userID, "", tokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(userID uuid.UUID, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   userID.String(),
			ID:        uuid.NewUUID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
		Username:  username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (m *TokenManager) VerifyAccessToken(token string) (*Claims, error) {
	return m.verify(token, tokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its subject.
func (m *TokenManager) VerifyRefreshToken(token string) (uuid.UUID, error) {
	claims, err := m.verify(token, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	userID, err := uuid.ParseUUID(claims.Subject)
	if err != nil {
		return "", errs.ErrAuthenticationFailed
	}

	return userID, nil
}

func (m *TokenManager) verify(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, errs.ErrAuthenticationFailed
	}
	if claims.TokenType != wantType {
		return nil, errs.ErrAuthenticationFailed
	}

	return claims, nil
}

// AccessTokenTTL returns the access token lifetime.
func (m *TokenManager) AccessTokenTTL() time.Duration {
	return m.accessTTL
}

// RefreshTokenTTL returns the refresh token lifetime.
func (m *TokenManager) RefreshTokenTTL() time.Duration {
	return m.refreshTTL
}
