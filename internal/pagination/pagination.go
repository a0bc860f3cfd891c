// Package pagination computes page windows and page metadata for list endpoints.
package pagination

import "math"

// Params is a normalized page request. Page and Limit are both at least 1.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps a raw page request: page defaults to 1, limit defaults to
// defaultLimit and never exceeds maxLimit.
func Normalize(page, limit, defaultLimit, maxLimit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip for this page. It saturates at
// math.MaxInt instead of wrapping for very large pages.
func (p Params) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Beyond reports whether the page starts past the last of total rows
func (p Params) Beyond(total int) bool {
	return p.Page > TotalPages(total, p.Limit)
}

// Result is one page of items with the totals of the full matching set
type Result[T any] struct {
	Items       []T  `json:"items"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	HasMore     bool `json:"has_more"`
}

// NewResult wraps a page already fetched from storage. total is the size of
// the full matching set, not of items.
func NewResult[T any](items []T, p Params, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	pages := TotalPages(total, p.Limit)
	return Result[T]{
		Items:       items,
		CurrentPage: p.Page,
		TotalPages:  pages,
		TotalCount:  total,
		HasMore:     p.Page < pages,
	}
}

// Paginate slices an in-memory result set. A page past the end yields an
// empty slice with HasMore false.
func Paginate[T any](all []T, p Params) Result[T] {
	total := len(all)
	start, end := total, total
	if !p.Beyond(total) {
		start = p.Offset()
		end = start + min(p.Limit, total-start)
	}

	page := make([]T, end-start)
	copy(page, all[start:end])
	return NewResult(page, p, total)
}

// TotalPages returns ceil(total/limit)
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
