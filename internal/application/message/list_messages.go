package message

import (
	"context"
	"fmt"

	"github.com/couriermsg/courier/internal/application/shared"
	"github.com/couriermsg/courier/internal/domain/errs"
)

// ListMessagesUseCase produces paginated, filterable views over a
// thread's messages.
type ListMessagesUseCase struct {
	messageRepo Repository
}

// NewListMessagesUseCase creates a new ListMessagesUseCase.
func NewListMessagesUseCase(messageRepo Repository) *ListMessagesUseCase {
	return &ListMessagesUseCase{messageRepo: messageRepo}
}

// Execute runs filter, order and paginate over the thread's messages, in
// that fixed sequence. Count is taken after filtering and before
// pagination.
func (uc *ListMessagesUseCase) Execute(ctx context.Context, query ListMessagesQuery) (ListMessagesResult, error) {
	if query.ThreadID.IsZero() {
		return ListMessagesResult{}, errs.ErrInvalidInput
	}
	if err := uc.validate(&query); err != nil {
		return ListMessagesResult{}, err
	}

	filters := Filters{
		Text:     query.Text,
		SenderID: query.SenderID,
		Ordering: query.Ordering,
		Offset:   query.Page.Offset(),
		Limit:    query.Page.Limit(),
	}

	results, err := uc.messageRepo.Find(ctx, query.ThreadID, filters)
	if err != nil {
		return ListMessagesResult{}, fmt.Errorf("failed to find messages: %w", err)
	}

	count, err := uc.messageRepo.Count(ctx, query.ThreadID, filters)
	if err != nil {
		return ListMessagesResult{}, fmt.Errorf("failed to count messages: %w", err)
	}

	return ListMessagesResult{
		Results: results,
		Count:   count,
	}, nil
}

func (uc *ListMessagesUseCase) validate(query *ListMessagesQuery) error {
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
		ve.Add("ordering", "must be created_at or -created_at")
		return ve.ErrOrNil()
	}

	return nil
}
