package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/project-tktt/go-jobboard/internal/search"
)

// compileWhere translates p into a WHERE expression with $n placeholders.
func compileWhere(p search.Predicate) (string, []any) {
	var args []any
	nextArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	return compile(p, nextArg), args
}

func compile(p search.Predicate, nextArg func(any) string) string {
	switch p.Op {
	case search.OpAnd, search.OpOr:
		if len(p.Args) == 0 {
			if p.Op == search.OpAnd {
				return "TRUE"
			}
			return "FALSE"
		}
		sep := " AND "
		if p.Op == search.OpOr {
			sep = " OR "
		}
		parts := make([]string, len(p.Args))
		for i, a := range p.Args {
			parts[i] = compile(a, nextArg)
		}
		return "(" + strings.Join(parts, sep) + ")"
	case search.OpStatusEq:
		return "l.status = " + nextArg(p.Value)
	case search.OpTypeIn:
		return "l.employment_type = ANY(" + nextArg(pq.Array(p.Values)) + ")"
	case search.OpLocationEq:
		return "l.location = " + nextArg(p.Value)
	case search.OpTitleContains:
		return "l.title ILIKE " + nextArg(containsPattern(p.Value))
	case search.OpDescriptionContains:
		return "l.description ILIKE " + nextArg(containsPattern(p.Value))
	case search.OpBenefitsHas:
		return nextArg(p.Value) + " = ANY(l.benefits)"
	case search.OpCompanyNameContains:
		return "c.name ILIKE " + nextArg(containsPattern(p.Value))
	case search.OpSalaryFromAtLeast:
		return "l.salary_from >= " + nextArg(p.Int)
	case search.OpSalaryToAtMost:
		return "l.salary_to <= " + nextArg(p.Int)
	case search.OpCreatedAtOrAfter:
		return "l.created_at >= " + nextArg(p.Time)
	}
	return "FALSE"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps s for ILIKE substring matching, escaping LIKE
// metacharacters so that user input matches literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var sortColumns = map[search.SortField]string{
	search.SortCreatedAt:   "l.created_at",
	search.SortSalaryFrom:  "l.salary_from",
	search.SortSalaryTo:    "l.salary_to",
	search.SortTitle:       "l.title",
	search.SortCompanyName: "c.name",
}

func orderClause(o search.Order) string {
	col, ok := sortColumns[o.Field]
	if !ok {
		col, o = sortColumns[search.SortCreatedAt], search.DefaultOrder
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", l.id ASC"
}
