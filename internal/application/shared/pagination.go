package shared

// Pagination bounds.
const (
	MinPageSize = 1
	MaxPageSize = 100

	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageRequest is an offset pagination request. Page starts at 1.
type PageRequest struct {
	Page     int
	PageSize int
}

// DefaultPageRequest returns the default pagination window.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Validate checks the pagination bounds and reports offending fields.
func (p PageRequest) Validate() error {
	ve := NewValidationError()
	if p.Page < 1 {
		ve.Add("page", "must be greater than or equal to 1")
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		ve.Add("page_size", "must be between 1 and 100")
	}
	return ve.ErrOrNil()
}

// Offset returns the number of items to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the window size.
func (p PageRequest) Limit() int {
	return p.PageSize
}

// Paginate returns the window [(page-1)*size : (page-1)*size+size] of items.
// It is pure and never fails: a page beyond the end yields an empty slice.
func Paginate[T any](items []T, p PageRequest) []T {
	offset := p.Offset()
	if offset >= len(items) {
		return make([]T, 0)
	}

	end := offset + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
