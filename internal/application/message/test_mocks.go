package message

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
	domainmessage "github.com/couriermsg/courier/internal/domain/message"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MockMessageRepository is an in-memory Repository for use case tests.
// It mirrors the store semantics: membership-checked creates, the
// collapsed read predicate, and filter/order/paginate listing.
type MockMessageRepository struct {
	ThreadParticipants map[uuid.UUID][]uuid.UUID
	ThreadUpdatedAt    map[uuid.UUID]time.Time
	Messages           map[uuid.UUID]*Message
	Usernames          map[uuid.UUID]string
}

// NewMockMessageRepository creates an empty MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		ThreadParticipants: make(map[uuid.UUID][]uuid.UUID),
		ThreadUpdatedAt:    make(map[uuid.UUID]time.Time),
		Messages:           make(map[uuid.UUID]*Message),
		Usernames:          make(map[uuid.UUID]string),
	}
}

// AddThread registers a thread with its participants.
func (m *MockMessageRepository) AddThread(threadID uuid.UUID, participants ...uuid.UUID) {
	m.ThreadParticipants[threadID] = participants
	m.ThreadUpdatedAt[threadID] = time.Now().UTC()
}

func (m *MockMessageRepository) isParticipant(threadID, userID uuid.UUID) bool {
	for _, p := range m.ThreadParticipants[threadID] {
		if p == userID {
			return true
		}
	}
	return false
}

func (m *MockMessageRepository) username(id uuid.UUID) string {
	if name, ok := m.Usernames[id]; ok {
		return name
	}
	return id.String()
}

// Create implements Repository.
func (m *MockMessageRepository) Create(_ context.Context, msg *domainmessage.Message) (*Message, error) {
	if _, ok := m.ThreadParticipants[msg.ThreadID()]; !ok {
		return nil, errs.ErrNotFound
	}
	if !m.isParticipant(msg.ThreadID(), msg.SenderID()) {
		return nil, errs.ErrNotFound
	}

	dto := &Message{
		ID:             msg.ID(),
		ThreadID:       msg.ThreadID(),
		SenderID:       msg.SenderID(),
		SenderUsername: m.username(msg.SenderID()),
		Text:           msg.Text(),
		IsRead:         msg.IsRead(),
		CreatedAt:      msg.CreatedAt(),
	}
	m.Messages[dto.ID] = dto
	m.ThreadUpdatedAt[msg.ThreadID()] = msg.CreatedAt()

	copied := *dto
	return &copied, nil
}

// MarkRead implements Repository.
func (m *MockMessageRepository) MarkRead(_ context.Context, messageID, readerID uuid.UUID) (*Message, error) {
	msg, ok := m.Messages[messageID]
	if !ok ||
		!m.isParticipant(msg.ThreadID, readerID) ||
		msg.SenderID == readerID ||
		msg.IsRead {
		return nil, errs.ErrNotFound
	}

	msg.IsRead = true
	copied := *msg
	return &copied, nil
}

func (m *MockMessageRepository) filtered(threadID uuid.UUID, f Filters) []Message {
	matched := make([]Message, 0)
	for _, msg := range m.Messages {
		if msg.ThreadID != threadID {
			continue
		}
		if f.Text != "" && !strings.Contains(strings.ToLower(msg.Text), strings.ToLower(f.Text)) {
			continue
		}
		if !f.SenderID.IsZero() && msg.SenderID != f.SenderID {
			continue
		}
		matched = append(matched, *msg)
	}

	ordering := f.Ordering
	if ordering == "" {
		ordering = DefaultOrdering
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if ordering.Descending() {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return matched
}

// Find implements Repository.
func (m *MockMessageRepository) Find(_ context.Context, threadID uuid.UUID, f Filters) ([]Message, error) {
	matched := m.filtered(threadID, f)
	limit := f.Limit
	if limit <= 0 {
		limit = shared.DefaultPageSize
	}
	page := shared.PageRequest{Page: f.Offset/limit + 1, PageSize: limit}
	return shared.Paginate(matched, page), nil
}

// Count implements Repository.
func (m *MockMessageRepository) Count(_ context.Context, threadID uuid.UUID, f Filters) (int, error) {
	return len(m.filtered(threadID, f)), nil
}

// CountUnreadForUser implements Repository.
func (m *MockMessageRepository) CountUnreadForUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, msg := range m.Messages {
		if m.isParticipant(msg.ThreadID, userID) && msg.SenderID != userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}
