package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

// Matches evaluates the predicate against a single listing.
func (p Predicate) Matches(l *domain.JobListing) bool {
	switch p.Op {
	case OpAnd:
		for _, a := range p.Args {
			if !a.Matches(l) {
				return false
			}
		}
		return true
	case OpOr:
		for _, a := range p.Args {
			if a.Matches(l) {
				return true
			}
		}
		return false
	case OpStatusEq:
		return string(l.Status) == p.Value
	case OpTypeIn:
		return slices.Contains(p.Values, string(l.EmploymentType))
	case OpLocationEq:
		return l.Location == p.Value
	case OpTitleContains:
		return containsFold(l.Title, p.Value)
	case OpDescriptionContains:
		return containsFold(l.Description, p.Value)
	case OpBenefitsHas:
		return slices.Contains(l.Benefits, p.Value)
	case OpCompanyNameContains:
		return containsFold(l.Company.Name, p.Value)
	case OpSalaryFromAtLeast:
		return l.SalaryFrom >= p.Int
	case OpSalaryToAtMost:
		return l.SalaryTo <= p.Int
	case OpCreatedAtOrAfter:
		return !l.CreatedAt.Before(p.Time)
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Compare orders two listings under o, falling back to id ascending.
func (o Order) Compare(a, b *domain.JobListing) int {
	var c int
	switch o.Field {
	case SortSalaryFrom:
		c = cmp.Compare(a.SalaryFrom, b.SalaryFrom)
	case SortSalaryTo:
		c = cmp.Compare(a.SalaryTo, b.SalaryTo)
	case SortTitle:
		c = strings.Compare(a.Title, b.Title)
	case SortCompanyName:
		c = strings.Compare(a.Company.Name, b.Company.Name)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if o.Desc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
