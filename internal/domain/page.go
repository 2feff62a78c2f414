package domain

import (
	"math"
	"strings"
)

// SortDirection orders a paged scan.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection maps "asc" (any case) to SortAsc and everything else to SortDesc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}

	return SortDesc
}

// PageRequest selects one page of a sorted scan.
type PageRequest struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortDir    SortDirection
}

// Validate rejects negative page numbers, non-positive page sizes and pages whose
// end lies beyond the range of int.
func (p PageRequest) Validate() error {
	switch {
	case p.PageNumber < 0:
		return NewValidationError("pageNo must not be negative")
	case p.PageSize <= 0:
		return NewValidationError("pageSize must be positive")
	case p.PageNumber >= math.MaxInt/p.PageSize:
		return NewValidationError("pageNo is out of range")
	}

	return nil
}

// Offset returns the number of records preceding the page.
func (p PageRequest) Offset() int {
	return p.PageNumber * p.PageSize
}

// PagedResult is one page of a sorted scan together with pagination metadata.
type PagedResult[T any] struct {
	Content       []T
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	IsLastPage    bool
}

// NewPagedResult computes the pagination metadata for content found at page.
func NewPagedResult[T any](content []T, page PageRequest, total int64) PagedResult[T] {
	var totalPages int
	if page.PageSize > 0 {
		totalPages = int((total + int64(page.PageSize) - 1) / int64(page.PageSize))
	}

	return PagedResult[T]{
		Content:       content,
		PageNumber:    page.PageNumber,
		PageSize:      page.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		IsLastPage:    page.PageNumber >= totalPages-1,
	}
}

// MapPagedResult converts the content of a page while keeping its metadata.
func MapPagedResult[T, U any](in PagedResult[T], fn func(T) U) PagedResult[U] {
	out := make([]U, 0, len(in.Content))
	for _, v := range in.Content {
		out = append(out, fn(v))
	}

	return PagedResult[U]{
		Content:       out,
		PageNumber:    in.PageNumber,
		PageSize:      in.PageSize,
		TotalElements: in.TotalElements,
		TotalPages:    in.TotalPages,
		IsLastPage:    in.IsLastPage,
	}
}
