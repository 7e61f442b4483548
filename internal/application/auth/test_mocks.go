package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couriermsg/courier/internal/domain/errs"
	domainuser "github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MockUserRepository is an in-memory UserRepository for use case tests.
type MockUserRepository struct {
	Users   map[uuid.UUID]*domainuser.User
	SaveErr error
}

// NewMockUserRepository creates an empty MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*domainuser.User)}
}

// Save implements UserRepository with a username uniqueness check.
func (m *MockUserRepository) Save(_ context.Context, u *domainuser.User) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for _, existing := range m.Users {
		if existing.Username() == u.Username() {
			return errs.ErrAlreadyExists
		}
	}
	m.Users[u.ID()] = u
	return nil
}

// FindByID implements UserRepository.
func (m *MockUserRepository) FindByID(_ context.Context, id uuid.UUID) (*domainuser.User, error) {
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, errs.ErrNotFound
}

// FindByUsername implements UserRepository.
func (m *MockUserRepository) FindByUsername(_ context.Context, username string) (*domainuser.User, error) {
	for _, u := range m.Users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, errs.ErrNotFound
}

// MockPasswordHasher records passwords as "hashed:<password>".
type MockPasswordHasher struct{}

// Hash implements PasswordHasher.
func (MockPasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

// Compare implements PasswordHasher.
func (MockPasswordHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

// MockTokenIssuer mints predictable tokens of the form
// "access:<userID>:<n>" and "refresh:<userID>:<n>".
type MockTokenIssuer struct {
	counter   int
	VerifyErr error
}

// IssueAccessToken implements TokenIssuer.
func (m *MockTokenIssuer) IssueAccessToken(userID uuid.UUID, _ string) (string, error) {
	m.counter++
	return fmt.Sprintf("access:%s:%d", userID, m.counter), nil
}

// IssueRefreshToken implements TokenIssuer.
func (m *MockTokenIssuer) IssueRefreshToken(userID uuid.UUID) (string, error) {
	m.counter++
	return fmt.Sprintf("refresh:%s:%d", userID, m.counter), nil
}

// VerifyRefreshToken implements TokenIssuer by parsing the mock format.
func (m *MockTokenIssuer) VerifyRefreshToken(token string) (uuid.UUID, error) {
	if m.VerifyErr != nil {
		return "", m.VerifyErr
	}
	parts := strings.SplitN(token, ":", 3)
	if len(parts) != 3 || parts[0] != "refresh" {
		return "", errors.New("malformed token")
	}
	return uuid.ParseUUID(parts[1])
}

// AccessTokenTTL implements TokenIssuer.
func (m *MockTokenIssuer) AccessTokenTTL() time.Duration { return 15 * time.Minute }

// RefreshTokenTTL implements TokenIssuer.
func (m *MockTokenIssuer) RefreshTokenTTL() time.Duration { return 7 * 24 * time.Hour }

// MockRefreshTokenStore keeps one refresh token per user in memory.
type MockRefreshTokenStore struct {
	Tokens map[uuid.UUID]string
}

// NewMockRefreshTokenStore creates an empty MockRefreshTokenStore.
func NewMockRefreshTokenStore() *MockRefreshTokenStore {
	return &MockRefreshTokenStore{Tokens: make(map[uuid.UUID]string)}
}

// StoreRefreshToken implements RefreshTokenStore.
func (m *MockRefreshTokenStore) StoreRefreshToken(
	_ context.Context,
	userID uuid.UUID,
	token string,
	_ time.Duration,
) error {
	m.Tokens[userID] = token
	return nil
}

// GetRefreshToken implements RefreshTokenStore.
func (m *MockRefreshTokenStore) GetRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	if token, ok := m.Tokens[userID]; ok {
		return token, nil
	}
	return "", errs.ErrNotFound
}

// DeleteRefreshToken implements RefreshTokenStore.
func (m *MockRefreshTokenStore) DeleteRefreshToken(_ context.Context, userID uuid.UUID) error {
	delete(m.Tokens, userID)
	return nil
}
