package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/domain/errs"
	userdomain "github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

func TestMongoUserRepository_SaveAndFind(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	usr := f.createUser(t, "alice")

	byID, err := f.users.FindByID(ctx, usr.ID())
	require.NoError(t, err)
	assert.Equal(t, usr.ID(), byID.ID())
	assert.Equal(t, "alice", byID.Username())
	assert.Equal(t, usr.PasswordHash(), byID.PasswordHash())
	assert.WithinDuration(t, usr.CreatedAt(), byID.CreatedAt(), 0)

	byName, err := f.users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, usr.ID(), byName.ID())
}

func TestMongoUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	f.createUser(t, "alice")

	dup, err := userdomain.NewUser("alice", "another-hash")
	require.NoError(t, err)

	err = f.users.Save(ctx, dup)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestMongoUserRepository_NotFound(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	_, err := f.users.FindByID(ctx, uuid.NewUUID())
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMongoUserRepository_InputValidation(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	_, err := f.users.FindByID(ctx, "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = f.users.FindByUsername(ctx, "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	err = f.users.Save(ctx, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
