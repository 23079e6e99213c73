package search

import (
	"math"
	"strings"
)

// SortField is one of the supported listing orderings
type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortSalaryFrom  SortField = "salaryFrom"
	SortSalaryTo    SortField = "salaryTo"
	SortTitle       SortField = "jobTitle"
	SortCompanyName SortField = "Company.name"
)

// Order is a resolved ordering. Stores append "id ASC" as the final
// tie-breaker so that equal sort keys page deterministically.
type Order struct {
	Field SortField
	Desc  bool
}

// DefaultOrder is newest first.
var DefaultOrder = Order{Field: SortCreatedAt, Desc: true}

// ResolveOrder maps the sortBy/sortOrder query values onto an Order.
// An unknown field yields DefaultOrder whatever the direction; an unknown
// direction yields descending.
func ResolveOrder(sortBy, sortOrder string) Order {
	field := SortField(strings.TrimSpace(sortBy))
	switch field {
	case SortCreatedAt, SortSalaryFrom, SortSalaryTo, SortTitle, SortCompanyName:
	default:
		return DefaultOrder
	}
	return Order{Field: field, Desc: !strings.EqualFold(strings.TrimSpace(sortOrder), "asc")}
}

// Direction returns "asc" or "desc".
func (o Order) Direction() string {
	if o.Desc {
		return "desc"
	}
	return "asc"
}

// Window is the offset/limit slice of the ordered match set for one page
type Window struct {
	Page   int
	Offset int
	Limit  int
}

// ResolveWindow clamps page to [1, MaxInt/pageSize] and computes the
// zero-based offset, which therefore never overflows.
func ResolveWindow(page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	page = max(1, min(page, math.MaxInt/pageSize))
	return Window{Page: page, Offset: (page - 1) * pageSize, Limit: pageSize}
}

// TotalPages is ceil(total / pageSize), never less than 1 so that an empty
// result still renders as "page 1 of 1".
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
