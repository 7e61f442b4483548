package thread

import (
	"time"

	"github.com/couriermsg/courier/internal/domain/uuid"
)

// Participant is a thread member as shown to clients.
type Participant struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Thread is the hydrated read model of a thread: participants are
// pre-loaded and sorted by username ascending for deterministic display.
type Thread struct {
	ID                uuid.UUID     `json:"id"`
	Participants      []Participant `json:"participants"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	LastMessageSentAt *time.Time    `json:"last_message_sent_at,omitempty"`
}

// HasParticipant reports whether the user is among the participants.
func (t *Thread) HasParticipant(userID uuid.UUID) bool {
	for _, p := range t.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// ListThreadsResult is a page of threads. Count is the total after
// filtering, before pagination. CountUnread is the caller's aggregate
// unread count across all their threads, independent of the filter.
type ListThreadsResult struct {
	Results     []Thread `json:"results"`
	Count       int      `json:"count"`
	CountUnread int      `json:"count_unread"`
}
