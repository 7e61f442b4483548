package message

import (
	"time"

	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Message is the hydrated read model of a message; the sender's username
// is pre-loaded for display.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ThreadID       uuid.UUID `json:"thread_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderUsername string    `json:"sender_username"`
	Text           string    `json:"text"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListMessagesResult is a page of messages. Count is the total after
// filtering, before pagination.
type ListMessagesResult struct {
	Results []Message `json:"results"`
	Count   int       `json:"count"`
}
