package message

import (
	"time"
	"unicode/utf8"

	"github.com/couriermsg/courier/internal/domain/errs"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MaxTextLength is the maximum allowed message text length, in
// characters rather than bytes.
const MaxTextLength = 2048

// Message is a single message inside a thread. Messages are immutable
// except for the one-way is_read transition.
type Message struct {
	id        uuid.UUID
	threadID  uuid.UUID
	senderID  uuid.UUID
	text      string
	isRead    bool
	createdAt time.Time
}

// NewMessage creates a new unread message.
func NewMessage(threadID, senderID uuid.UUID, text string) (*Message, error) {
	if threadID.IsZero() || senderID.IsZero() {
		return nil, errs.ErrInvalidInput
	}
	if text == "" || utf8.RuneCountInString(text) > MaxTextLength {
		return nil, errs.ErrInvalidInput
	}

	return &Message{
		id:        uuid.NewUUID(),
		threadID:  threadID,
		senderID:  senderID,
		text:      text,
		isRead:    false,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Message from persisted state.
func Reconstruct(id, threadID, senderID uuid.UUID, text string, isRead bool, createdAt time.Time) *Message {
	return &Message{
		id:        id,
		threadID:  threadID,
		senderID:  senderID,
		text:      text,
		isRead:    isRead,
		createdAt: createdAt,
	}
}

// CanBeReadBy reports whether the user may mark the message read: only a
// recipient, never the sender, and only while still unread.
func (m *Message) CanBeReadBy(userID uuid.UUID) bool {
	return !m.isRead && m.senderID != userID
}

// MarkRead flips is_read from false to true. The transition is one-way;
// marking an already-read message is an error.
func (m *Message) MarkRead(readerID uuid.UUID) error {
	if !m.CanBeReadBy(readerID) {
		return errs.ErrNotFound
	}
	m.isRead = true
	return nil
}

// ID returns the message ID.
func (m *Message) ID() uuid.UUID {
	return m.id
}

// ThreadID returns the owning thread ID.
func (m *Message) ThreadID() uuid.UUID {
	return m.threadID
}

// SenderID returns the author's user ID.
func (m *Message) SenderID() uuid.UUID {
	return m.senderID
}

// Text returns the message text.
func (m *Message) Text() string {
	return m.text
}

// IsRead reports whether the message has been read.
func (m *Message) IsRead() bool {
	return m.isRead
}

// CreatedAt returns the creation time, the ordering and tiebreak key.
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}
