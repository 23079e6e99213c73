package search

import (
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

// Op identifies the kind of a Predicate node
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpStatusEq            // Value
	OpTypeIn              // Values
	OpLocationEq          // Value
	OpTitleContains       // Value, case-insensitive
	OpDescriptionContains // Value, case-insensitive
	OpBenefitsHas         // Value, exact element
	OpCompanyNameContains // Value, case-insensitive
	OpSalaryFromAtLeast   // Int
	OpSalaryToAtMost      // Int
	OpCreatedAtOrAfter    // Time
)

// Predicate is a small filter tree over job listings. Stores translate
// it into their own query language; Matches evaluates it in memory.
type Predicate struct {
	Op     Op
	Args   []Predicate
	Value  string
	Values []string
	Int    int
	Time   time.Time
}

func And(args ...Predicate) Predicate { return Predicate{Op: OpAnd, Args: args} }
func Or(args ...Predicate) Predicate { return Predicate{Op: OpOr, Args: args} }

func StatusEq(s domain.ListingStatus) Predicate {
	return Predicate{Op: OpStatusEq, Value: string(s)}
}

func TypeIn(types ...domain.EmploymentType) Predicate {
	vals := make([]string, len(types))
	for i, t := range types {
		vals[i] = string(t)
	}
	return Predicate{Op: OpTypeIn, Values: vals}
}

func LocationEq(loc string) Predicate { return Predicate{Op: OpLocationEq, Value: loc} }

func TitleContains(q string) Predicate { return Predicate{Op: OpTitleContains, Value: q} }

func DescriptionContains(q string) Predicate {
	return Predicate{Op: OpDescriptionContains, Value: q}
}

func BenefitsHas(tag string) Predicate { return Predicate{Op: OpBenefitsHas, Value: tag} }

func CompanyNameContains(q string) Predicate {
	return Predicate{Op: OpCompanyNameContains, Value: q}
}

func SalaryFromAtLeast(n int) Predicate { return Predicate{Op: OpSalaryFromAtLeast, Int: n} }

func SalaryToAtMost(n int) Predicate { return Predicate{Op: OpSalaryToAtMost, Int: n} }

func CreatedAtOrAfter(t time.Time) Predicate { return Predicate{Op: OpCreatedAtOrAfter, Time: t} }

// BuildPredicate turns a FilterRequest into the listing predicate. The
// root is always an AND whose first clause is status = ACTIVE; no request
// field can remove it.
func BuildPredicate(req FilterRequest, salaryCeiling int, now time.Time) Predicate {
	clauses := []Predicate{StatusEq(domain.StatusActive)}

	if len(req.JobTypes) > 0 {
		clauses = append(clauses, TypeIn(req.JobTypes...))
	}

	// "worldwide" disables the location filter instead of selecting
	// remote listings only.
	if req.Location != "" && req.Location != domain.LocationWorldwide {
		clauses = append(clauses, LocationEq(req.Location))
	}

	if req.Search != "" {
		clauses = append(clauses, Or(
			TitleContains(req.Search),
			DescriptionContains(req.Search),
			BenefitsHas(req.Search),
		))
	}

	if req.Company != "" {
		clauses = append(clauses, CompanyNameContains(req.Company))
	}

	if req.SalaryMin > 0 {
		clauses = append(clauses, SalaryFromAtLeast(min(req.SalaryMin, MaxSalary)))
	}
	if req.SalaryMax > 0 && req.SalaryMax < salaryCeiling {
		clauses = append(clauses, SalaryToAtMost(min(req.SalaryMax, MaxSalary)))
	}

	if req.DatePostedDays > 0 {
		cutoff := now.AddDate(0, 0, -min(req.DatePostedDays, MaxDatePostedDays))
		clauses = append(clauses, CreatedAtOrAfter(cutoff))
	}

	return And(clauses...)
}
