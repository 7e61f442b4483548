package message_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/application/message"
	"github.com/couriermsg/courier/internal/application/shared"
	domainmessage "github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

type listFixture struct {
	repo     *message.MockMessageRepository
	threadID uuid.UUID
	alice    uuid.UUID
	bob      uuid.UUID
}

func setupMessageListFixture(t *testing.T) listFixture {
	t.Helper()

	repo := message.NewMockMessageRepository()
	threadID := uuid.NewUUID()
	alice := uuid.NewUUID()
	bob := uuid.NewUUID()
	repo.AddThread(threadID, alice, bob)
	repo.Usernames[alice] = "alice"
	repo.Usernames[bob] = "bob"

	texts := []struct {
		sender uuid.UUID
		text   string
	}{
		{alice, "hi bob"},
		{bob, "Hello alice"},
		{alice, "are you there"},
		{bob, "HELLO again"},
	}
	for _, m := range texts {
		msg, err := domainmessage.NewMessage(threadID, m.sender, m.text)
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), msg)
		require.NoError(t, err)
	}

	return listFixture{repo: repo, threadID: threadID, alice: alice, bob: bob}
}

func TestListMessagesUseCase_All(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Count)
	require.Len(t, result.Results, 4)

	// Default ordering is created_at descending.
	for i := 1; i < len(result.Results); i++ {
		assert.False(t, result.Results[i].CreatedAt.After(result.Results[i-1].CreatedAt))
	}
}

func TestListMessagesUseCase_TextFilter(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	// Case-insensitive substring containment.
	result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
		Text:     "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	for _, msg := range result.Results {
		assert.Contains(t, []string{"Hello alice", "HELLO again"}, msg.Text)
	}
}

func TestListMessagesUseCase_TextFilterNoMatch(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
		Text:     "zzz",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Results)
}

func TestListMessagesUseCase_SenderFilter(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
		SenderID: f.bob,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	for _, msg := range result.Results {
		assert.Equal(t, f.bob, msg.SenderID)
		assert.Equal(t, "bob", msg.SenderUsername)
	}
}

func TestListMessagesUseCase_AscendingOrder(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
		Ordering: message.OrderingCreatedAtAsc,
	})

	require.NoError(t, err)
	for i := 1; i < len(result.Results); i++ {
		assert.False(t, result.Results[i].CreatedAt.Before(result.Results[i-1].CreatedAt))
	}
}

func TestListMessagesUseCase_Pagination(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	pages := make([][]message.Message, 0, 3)
	for p := 1; p <= 3; p++ {
		result, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
			CallerID: f.alice,
			ThreadID: f.threadID,
			Page:     shared.PageRequest{Page: p, PageSize: 3},
		})
		require.NoError(t, err, fmt.Sprintf("page %d", p))
		assert.Equal(t, 4, result.Count)
		pages = append(pages, result.Results)
	}

	assert.Len(t, pages[0], 3)
	assert.Len(t, pages[1], 1)
	assert.Empty(t, pages[2])
}

func TestListMessagesUseCase_InvalidOrdering(t *testing.T) {
	f := setupMessageListFixture(t)
	useCase := message.NewListMessagesUseCase(f.repo)

	_, err := useCase.Execute(context.Background(), message.ListMessagesQuery{
		CallerID: f.alice,
		ThreadID: f.threadID,
		Ordering: "updated_at", // not a message ordering
	})

	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields(), "ordering")
}
