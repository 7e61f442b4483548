package thread

import (
	"context"
	"sort"
	"time"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
	domainthread "github.com/couriermsg/courier/internal/domain/thread"
	"github.com/couriermsg/courier/internal/domain/user"
	"github.com/couriermsg/courier/internal/domain/uuid"
)

// MockThreadRepository is an in-memory Repository for use case tests. It
// mirrors the store semantics: pair uniqueness, membership-checked
// deletes, and filter/order/paginate listing.
type MockThreadRepository struct {
	Threads   map[uuid.UUID]*Thread
	Usernames map[uuid.UUID]string

	CreateCalls int
	DeleteCalls int
}

// NewMockThreadRepository creates an empty MockThreadRepository.
func NewMockThreadRepository() *MockThreadRepository {
	return &MockThreadRepository{
		Threads:   make(map[uuid.UUID]*Thread),
		Usernames: make(map[uuid.UUID]string),
	}
}

func (m *MockThreadRepository) username(id uuid.UUID) string {
	if name, ok := m.Usernames[id]; ok {
		return name
	}
	return id.String()
}

func (m *MockThreadRepository) participants(a, b uuid.UUID) []Participant {
	ps := []Participant{
		{ID: a, Username: m.username(a)},
		{ID: b, Username: m.username(b)},
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Username < ps[j].Username })
	return ps
}

// FindByParticipantPair implements Repository.
func (m *MockThreadRepository) FindByParticipantPair(_ context.Context, a, b uuid.UUID) (*Thread, error) {
	key := domainthread.PairKey(a, b)
	for _, th := range m.Threads {
		if len(th.Participants) == domainthread.ParticipantLimit &&
			domainthread.PairKey(th.Participants[0].ID, th.Participants[1].ID) == key {
			copied := *th
			return &copied, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Create implements Repository.
func (m *MockThreadRepository) Create(ctx context.Context, a, b uuid.UUID) (*Thread, error) {
	m.CreateCalls++

	// Pair uniqueness: a lost race returns the existing thread.
	if existing, err := m.FindByParticipantPair(ctx, a, b); err == nil {
		return existing, nil
	}

	now := time.Now().UTC()
	th := &Thread{
		ID:           uuid.NewUUID(),
		Participants: m.participants(a, b),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.Threads[th.ID] = th

	copied := *th
	return &copied, nil
}

// DeleteOwned implements Repository.
func (m *MockThreadRepository) DeleteOwned(_ context.Context, threadID, participantID uuid.UUID) error {
	m.DeleteCalls++

	th, ok := m.Threads[threadID]
	if !ok || !th.HasParticipant(participantID) {
		return errs.ErrNotFound
	}
	delete(m.Threads, threadID)
	return nil
}

func (m *MockThreadRepository) filtered(f Filters) []Thread {
	matched := make([]Thread, 0, len(m.Threads))
	for _, th := range m.Threads {
		if len(f.ParticipantIDs) > 0 && !m.matchesAny(th, f.ParticipantIDs) {
			continue
		}
		matched = append(matched, *th)
	}

	ordering := f.Ordering
	if ordering == "" {
		ordering = DefaultOrdering
	}
	sort.SliceStable(matched, func(i, j int) bool {
		less := compareThreads(&matched[i], &matched[j], ordering.Field())
		if ordering.Descending() {
			return less > 0
		}
		return less < 0
	})

	return matched
}

func (m *MockThreadRepository) matchesAny(th *Thread, ids []uuid.UUID) bool {
	for _, id := range ids {
		if th.HasParticipant(id) {
			return true
		}
	}
	return false
}

// compareThreads returns -1, 0 or 1 for the given sort field, with nil
// last_message_sent_at sorting lowest.
func compareThreads(a, b *Thread, field string) int {
	var ta, tb time.Time
	switch field {
	case "updated_at":
		ta, tb = a.UpdatedAt, b.UpdatedAt
	case "last_message_sent_at":
		if a.LastMessageSentAt != nil {
			ta = *a.LastMessageSentAt
		}
		if b.LastMessageSentAt != nil {
			tb = *b.LastMessageSentAt
		}
	default:
		ta, tb = a.CreatedAt, b.CreatedAt
	}
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}

// Find implements Repository.
func (m *MockThreadRepository) Find(_ context.Context, f Filters) ([]Thread, error) {
	matched := m.filtered(f)
	limit := f.Limit
	if limit <= 0 {
		limit = shared.DefaultPageSize
	}
	page := shared.PageRequest{Page: f.Offset/limit + 1, PageSize: limit}
	return shared.Paginate(matched, page), nil
}

// Count implements Repository.
func (m *MockThreadRepository) Count(_ context.Context, f Filters) (int, error) {
	return len(m.filtered(f)), nil
}

// MockUserDirectory is an in-memory UserDirectory.
type MockUserDirectory struct {
	Users map[uuid.UUID]*user.User
}

// NewMockUserDirectory creates an empty MockUserDirectory.
func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{Users: make(map[uuid.UUID]*user.User)}
}

// AddUser registers a user and returns its ID.
func (m *MockUserDirectory) AddUser(username string) uuid.UUID {
	u := user.Reconstruct(uuid.NewUUID(), username, "hash", time.Now().UTC())
	m.Users[u.ID()] = u
	return u.ID()
}

// FindByID implements UserDirectory.
func (m *MockUserDirectory) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := m.Users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// MockUnreadCounter is a fixed-value UnreadCounter.
type MockUnreadCounter struct {
	Counts map[uuid.UUID]int
}

// NewMockUnreadCounter creates an empty MockUnreadCounter.
func NewMockUnreadCounter() *MockUnreadCounter {
	return &MockUnreadCounter{Counts: make(map[uuid.UUID]int)}
}

// CountUnreadForUser implements UnreadCounter.
func (m *MockUnreadCounter) CountUnreadForUser(_ context.Context, userID uuid.UUID) (int, error) {
	return m.Counts[userID], nil
}
