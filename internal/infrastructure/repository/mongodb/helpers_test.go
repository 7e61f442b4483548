package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	threadapp "github.com/couriermsg/courier/internal/application/thread"
	messagedomain "github.com/couriermsg/courier/internal/domain/message"
	userdomain "github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
	infra "github.com/couriermsg/courier/internal/infrastructure/mongodb"
	"github.com/couriermsg/courier/internal/infrastructure/repository/mongodb"
	"github.com/couriermsg/courier/tests/testutil"
)

type repoFixture struct {
	users    *mongodb.MongoUserRepository
	threads  *mongodb.MongoThreadRepository
	messages *mongodb.MongoMessageRepository
}

func setupRepos(t *testing.T) repoFixture {
	t.Helper()

	db := testutil.SetupTestMongoDB(t)
	ctx := context.Background()

	require.NoError(t, infra.CreateAllIndexes(ctx, db))

	usersColl := db.Collection(infra.CollectionUsers)
	threadsColl := db.Collection(infra.CollectionThreads)
	messagesColl := db.Collection(infra.CollectionMessages)

	return repoFixture{
		users:    mongodb.NewMongoUserRepository(usersColl),
		threads:  mongodb.NewMongoThreadRepository(threadsColl, messagesColl, usersColl),
		messages: mongodb.NewMongoMessageRepository(messagesColl, threadsColl, usersColl),
	}
}

func (f repoFixture) createUser(t *testing.T, username string) *userdomain.User {
	t.Helper()

	usr, err := userdomain.NewUser(username, "hash:"+username)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(context.Background(), usr))
	return usr
}

func (f repoFixture) createThread(t *testing.T, a, b uuid.UUID) *threadapp.Thread {
	t.Helper()

	created, err := f.threads.Create(context.Background(), a, b)
	require.NoError(t, err)
	return created
}

func (f repoFixture) sendMessage(t *testing.T, threadID, senderID uuid.UUID, text string) *messagedomain.Message {
	t.Helper()

	msg, err := messagedomain.NewMessage(threadID, senderID, text)
	require.NoError(t, err)
	_, err = f.messages.Create(context.Background(), msg)
	require.NoError(t, err)

	// Guarantees strictly increasing created_at for ordering tests.
	time.Sleep(2 * time.Millisecond)
	return msg
}
