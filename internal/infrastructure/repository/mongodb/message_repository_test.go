package mongodb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	messageapp "github.com/couriermsg/courier/internal/application/message"
	"github.com/couriermsg/courier/internal/domain/errs"
	messagedomain "github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

func TestMongoMessageRepository_CreateHydratesAndTouchesThread(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	thread := f.createThread(t, alice.ID(), bob.ID())

	msg, err := messagedomain.NewMessage(thread.ID, alice.ID(), "hello bob")
	require.NoError(t, err)

	created, err := f.messages.Create(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, msg.ID(), created.ID)
	assert.Equal(t, "alice", created.SenderUsername)
	assert.False(t, created.IsRead)

	// The thread's updated_at advances to the message time.
	refreshed, err := f.threads.FindByParticipantPair(ctx, alice.ID(), bob.ID())
	require.NoError(t, err)
	assert.WithinDuration(t, msg.CreatedAt(), refreshed.UpdatedAt, 0)
	require.NotNil(t, refreshed.LastMessageSentAt)
	assert.WithinDuration(t, msg.CreatedAt(), *refreshed.LastMessageSentAt, 0)
}

func TestMongoMessageRepository_CreateRejectsOutsider(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")
	thread := f.createThread(t, alice.ID(), bob.ID())

	msg, err := messagedomain.NewMessage(thread.ID, mallory.ID(), "let me in")
	require.NoError(t, err)

	_, err = f.messages.Create(ctx, msg)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// Nothing was written.
	count, err := f.messages.Count(ctx, thread.ID, messageapp.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMongoMessageRepository_CreateMissingThread(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)

	alice := f.createUser(t, "alice")
	msg, err := messagedomain.NewMessage(uuid.NewUUID(), alice.ID(), "into the void")
	require.NoError(t, err)

	_, err = f.messages.Create(context.Background(), msg)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMongoMessageRepository_MarkRead(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	thread := f.createThread(t, alice.ID(), bob.ID())
	msg := f.sendMessage(t, thread.ID, alice.ID(), "unread yet")

	read, err := f.messages.MarkRead(ctx, msg.ID(), bob.ID())
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.Equal(t, msg.ID(), read.ID)

	// The flip is one way; a second read attempt finds nothing unread.
	_, err = f.messages.MarkRead(ctx, msg.ID(), bob.ID())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMongoMessageRepository_MarkReadRejections(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	mallory := f.createUser(t, "mallory")
	thread := f.createThread(t, alice.ID(), bob.ID())
	msg := f.sendMessage(t, thread.ID, alice.ID(), "for bob only")

	tests := []struct {
		name      string
		messageID uuid.UUID
		readerID  uuid.UUID
	}{
		{name: "missing message", messageID: uuid.NewUUID(), readerID: bob.ID()},
		{name: "sender reads own message", messageID: msg.ID(), readerID: alice.ID()},
		{name: "outsider reads", messageID: msg.ID(), readerID: mallory.ID()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.messages.MarkRead(ctx, tt.messageID, tt.readerID)
			assert.ErrorIs(t, err, errs.ErrNotFound)
		})
	}
}

func TestMongoMessageRepository_FindWithFilters(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	thread := f.createThread(t, alice.ID(), bob.ID())

	f.sendMessage(t, thread.ID, alice.ID(), "Hello bob")
	f.sendMessage(t, thread.ID, bob.ID(), "hello back")
	f.sendMessage(t, thread.ID, alice.ID(), "are you there")

	// Case-insensitive substring filter.
	found, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{
		Text:     "HELLO",
		Ordering: messageapp.OrderingCreatedAtAsc,
	})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Hello bob", found[0].Text)
	assert.Equal(t, "hello back", found[1].Text)

	count, err := f.messages.Count(ctx, thread.ID, messageapp.Filters{Text: "HELLO"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Sender filter.
	fromBob, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{
		SenderID: bob.ID(),
		Ordering: messageapp.OrderingCreatedAtAsc,
	})
	require.NoError(t, err)
	require.Len(t, fromBob, 1)
	assert.Equal(t, "bob", fromBob[0].SenderUsername)

	// No match yields an empty page, not an error.
	empty, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{Text: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMongoMessageRepository_FindFilterTextIsLiteral(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	thread := f.createThread(t, alice.ID(), bob.ID())

	f.sendMessage(t, thread.ID, alice.ID(), "price is 5.00")
	f.sendMessage(t, thread.ID, alice.ID(), "price is 5x00")

	// The dot is matched literally, not as a regex wildcard.
	found, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{Text: "5.00"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "price is 5.00", found[0].Text)
}

func TestMongoMessageRepository_FindOrderingAndPagination(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	thread := f.createThread(t, alice.ID(), bob.ID())

	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		f.sendMessage(t, thread.ID, alice.ID(), text)
	}

	desc, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{
		Ordering: messageapp.OrderingCreatedAtDesc,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, desc, 2)
	assert.Equal(t, "fourth", desc[0].Text)
	assert.Equal(t, "third", desc[1].Text)

	secondPage, err := f.messages.Find(ctx, thread.ID, messageapp.Filters{
		Ordering: messageapp.OrderingCreatedAtDesc,
		Offset:   2,
		Limit:    2,
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Equal(t, "second", secondPage[0].Text)
	assert.Equal(t, "first", secondPage[1].Text)
}

func TestMongoMessageRepository_CountUnreadForUser(t *testing.T) {
	t.Parallel()

	f := setupRepos(t)
	ctx := context.Background()

	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	carol := f.createUser(t, "carol")

	threadAB := f.createThread(t, alice.ID(), bob.ID())
	threadAC := f.createThread(t, alice.ID(), carol.ID())

	f.sendMessage(t, threadAB.ID, bob.ID(), "to alice 1")
	f.sendMessage(t, threadAB.ID, bob.ID(), "to alice 2")
	f.sendMessage(t, threadAC.ID, carol.ID(), "to alice 3")
	msg := f.sendMessage(t, threadAB.ID, alice.ID(), "own message does not count")

	count, err := f.messages.CountUnreadForUser(ctx, alice.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Bob sees only alice's message.
	count, err = f.messages.CountUnreadForUser(ctx, bob.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Reading drops the count.
	_, err = f.messages.MarkRead(ctx, msg.ID(), bob.ID())
	require.NoError(t, err)

	count, err = f.messages.CountUnreadForUser(ctx, bob.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A user with no threads has zero unread.
	outsider := f.createUser(t, "dave")
	count, err = f.messages.CountUnreadForUser(ctx, outsider.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
