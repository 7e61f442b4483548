package message_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

func TestNewMessage(t *testing.T) {
	threadID := uuid.NewUUID()
	senderID := uuid.NewUUID()

	msg, err := message.NewMessage(threadID, senderID, "hi")

	require.NoError(t, err)
	assert.False(t, msg.ID().IsZero())
	assert.Equal(t, threadID, msg.ThreadID())
	assert.Equal(t, senderID, msg.SenderID())
	assert.Equal(t, "hi", msg.Text())
	assert.False(t, msg.IsRead())
	assert.False(t, msg.CreatedAt().IsZero())
}

func TestNewMessage_Invalid(t *testing.T) {
	threadID := uuid.NewUUID()
	senderID := uuid.NewUUID()

	testCases := []struct {
		name     string
		threadID uuid.UUID
		senderID uuid.UUID
		text     string
	}{
		{"zero thread", "", senderID, "hi"},
		{"zero sender", threadID, "", "hi"},
		{"empty text", threadID, senderID, ""},
		{"text too long", threadID, senderID, strings.Repeat("a", message.MaxTextLength+1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := message.NewMessage(tc.threadID, tc.senderID, tc.text)

			require.Error(t, err)
			assert.Nil(t, msg)
		})
	}
}

func TestNewMessage_TextAtLimit(t *testing.T) {
	msg, err := message.NewMessage(uuid.NewUUID(), uuid.NewUUID(), strings.Repeat("a", message.MaxTextLength))

	require.NoError(t, err)
	assert.Len(t, msg.Text(), message.MaxTextLength)
}

func TestNewMessage_MultibyteTextAtLimit(t *testing.T) {
	// At the limit in characters even though over it in bytes.
	text := strings.Repeat("é", message.MaxTextLength)

	msg, err := message.NewMessage(uuid.NewUUID(), uuid.NewUUID(), text)

	require.NoError(t, err)
	assert.Equal(t, text, msg.Text())
}

func TestMessage_MarkRead(t *testing.T) {
	senderID := uuid.NewUUID()
	readerID := uuid.NewUUID()
	msg, err := message.NewMessage(uuid.NewUUID(), senderID, "hi")
	require.NoError(t, err)

	require.True(t, msg.CanBeReadBy(readerID))
	require.NoError(t, msg.MarkRead(readerID))
	assert.True(t, msg.IsRead())
}

func TestMessage_MarkRead_BySender(t *testing.T) {
	senderID := uuid.NewUUID()
	msg, err := message.NewMessage(uuid.NewUUID(), senderID, "hi")
	require.NoError(t, err)

	assert.False(t, msg.CanBeReadBy(senderID))
	require.Error(t, msg.MarkRead(senderID))
	assert.False(t, msg.IsRead())
}

func TestMessage_MarkRead_Twice(t *testing.T) {
	readerID := uuid.NewUUID()
	msg, err := message.NewMessage(uuid.NewUUID(), uuid.NewUUID(), "hi")
	require.NoError(t, err)

	require.NoError(t, msg.MarkRead(readerID))

	// The transition is one-way; a second read fails even for a valid reader.
	require.Error(t, msg.MarkRead(readerID))
	assert.True(t, msg.IsRead())
}
