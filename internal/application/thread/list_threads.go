package thread

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
)

// ListThreadsUseCase produces paginated, filterable, sortable views over
// threads together with the caller's aggregate unread count.
type ListThreadsUseCase struct {
	threadRepo Repository
	unread     UnreadCounter
}

// NewListThreadsUseCase creates a new ListThreadsUseCase.
func NewListThreadsUseCase(threadRepo Repository, unread UnreadCounter) *ListThreadsUseCase {
	return &ListThreadsUseCase{
		threadRepo: threadRepo,
		unread:     unread,
	}
}

// Execute runs filter, order and paginate over the thread set, in that
// fixed sequence. Count is taken after filtering and before pagination;
// CountUnread is the caller's aggregate and ignores the filter entirely.
func (uc *ListThreadsUseCase) Execute(ctx context.Context, query ListThreadsQuery) (ListThreadsResult, error) {
	if query.CallerID.IsZero() {
		return ListThreadsResult{}, errs.ErrInvalidInput
	}
	if err := uc.validate(&query); err != nil {
		return ListThreadsResult{}, err
	}

	filters := Filters{
		ParticipantIDs: query.ParticipantIDs,
		Ordering:       query.Ordering,
		Offset:         query.Page.Offset(),
		Limit:          query.Page.Limit(),
	}

	results, err := uc.threadRepo.Find(ctx, filters)
	if err != nil {
		return ListThreadsResult{}, fmt.Errorf("failed to find threads: %w", err)
	}

	count, err := uc.threadRepo.Count(ctx, filters)
	if err != nil {
		return ListThreadsResult{}, fmt.Errorf("failed to count threads: %w", err)
	}

	countUnread, err := uc.unread.CountUnreadForUser(ctx, query.CallerID)
	if err != nil {
		return ListThreadsResult{}, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return ListThreadsResult{
		Results:     results,
		Count:       count,
		CountUnread: countUnread,
	}, nil
}

func (uc *ListThreadsUseCase) validate(query *ListThreadsQuery) error {
	if query.Page == (shared.PageRequest{}) {
		query.Page = shared.DefaultPageRequest()
	}
	if err := query.Page.Validate(); err != nil {
		return err
	}

	if query.Ordering == "" {
		query.Ordering = DefaultOrdering
	}
	if _, ok := ParseOrdering(string(query.Ordering)); !ok {
		ve := shared.NewValidationError()
		ve.Add("ordering", "must be one of created_at, updated_at, last_message_sent_at, optionally prefixed with -")
		return ve.ErrOrNil()
	}

	return nil
}
