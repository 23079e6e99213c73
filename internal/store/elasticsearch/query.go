package elasticsearch

import (
	"strings"
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
)

// document is the indexed shape of a listing
type document struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EmploymentType string     `json:"employment_type"`
	Location       string     `json:"location"`
	SalaryFrom     int        `json:"salary_from"`
	SalaryTo       int        `json:"salary_to"`
	Benefits       []string   `json:"benefits"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Company        companyDoc `json:"company"`
}

type companyDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	About    string `json:"about"`
	Location string `json:"location"`
	Logo     string `json:"logo"`
}

func toDocument(l *domain.JobListing) document {
	benefits := l.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	return document{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		EmploymentType: string(l.EmploymentType),
		Location:       l.Location,
		SalaryFrom:     l.SalaryFrom,
		SalaryTo:       l.SalaryTo,
		Benefits:       benefits,
		Status:         string(l.Status),
		CreatedAt:      l.CreatedAt.UTC(),
		UpdatedAt:      l.UpdatedAt.UTC(),
		Company: companyDoc{
			ID:       l.Company.ID,
			Name:     l.Company.Name,
			About:    l.Company.About,
			Location: l.Company.Location,
			Logo:     l.Company.Logo,
		},
	}
}

func (d document) listing() domain.JobListing {
	return domain.JobListing{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		EmploymentType: domain.EmploymentType(d.EmploymentType),
		Location:       d.Location,
		SalaryFrom:     d.SalaryFrom,
		SalaryTo:       d.SalaryTo,
		Benefits:       d.Benefits,
		Status:         domain.ListingStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Company: domain.Company{
			ID:       d.Company.ID,
			Name:     d.Company.Name,
			About:    d.Company.About,
			Location: d.Company.Location,
			Logo:     d.Company.Logo,
		},
	}
}

// indexMapping keeps exact-match fields as keywords. Substring search runs
// against the wildcard-typed "raw" subfields; sorting uses the "sort"
// keyword subfields.
const indexMapping = `{
	"mappings": {
		"properties": {
			"id": {"type": "keyword"},
			"title": {
				"type": "text",
				"fields": {
					"raw": {"type": "wildcard"},
					"sort": {"type": "keyword", "ignore_above": 256}
				}
			},
			"description": {
				"type": "text",
				"fields": {"raw": {"type": "wildcard"}}
			},
			"employment_type": {"type": "keyword"},
			"location": {"type": "keyword"},
			"salary_from": {"type": "integer"},
			"salary_to": {"type": "integer"},
			"benefits": {"type": "keyword"},
			"status": {"type": "keyword"},
			"created_at": {"type": "date"},
			"updated_at": {"type": "date"},
			"company": {
				"properties": {
					"id": {"type": "keyword"},
					"name": {
						"type": "text",
						"fields": {
							"raw": {"type": "wildcard"},
							"sort": {"type": "keyword", "ignore_above": 256}
						}
					},
					"about": {"type": "text", "index": false},
					"location": {"type": "keyword"},
					"logo": {"type": "keyword", "index": false}
				}
			}
		}
	}
}`

// buildQuery translates p into the query DSL.
func buildQuery(p search.Predicate) map[string]any {
	switch p.Op {
	case search.OpAnd:
		if len(p.Args) == 0 {
			return map[string]any{"match_all": map[string]any{}}
		}
		return map[string]any{"bool": map[string]any{"filter": buildQueries(p.Args)}}
	case search.OpOr:
		if len(p.Args) == 0 {
			return map[string]any{"match_none": map[string]any{}}
		}
		return map[string]any{"bool": map[string]any{
			"should":               buildQueries(p.Args),
			"minimum_should_match": 1,
		}}
	case search.OpStatusEq:
		return term("status", p.Value)
	case search.OpTypeIn:
		return map[string]any{"terms": map[string]any{"employment_type": p.Values}}
	case search.OpLocationEq:
		return term("location", p.Value)
	case search.OpTitleContains:
		return contains("title.raw", p.Value)
	case search.OpDescriptionContains:
		return contains("description.raw", p.Value)
	case search.OpBenefitsHas:
		return term("benefits", p.Value)
	case search.OpCompanyNameContains:
		return contains("company.name.raw", p.Value)
	case search.OpSalaryFromAtLeast:
		return rangeQuery("salary_from", "gte", p.Int)
	case search.OpSalaryToAtMost:
		return rangeQuery("salary_to", "lte", p.Int)
	case search.OpCreatedAtOrAfter:
		return rangeQuery("created_at", "gte", p.Time.UTC().Format(time.RFC3339Nano))
	}
	return map[string]any{"match_none": map[string]any{}}
}

func buildQueries(ps []search.Predicate) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = buildQuery(p)
	}
	return out
}

func term(field, value string) map[string]any {
	return map[string]any{"term": map[string]any{field: value}}
}

func rangeQuery(field, op string, value any) map[string]any {
	return map[string]any{"range": map[string]any{field: map[string]any{op: value}}}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func contains(field, value string) map[string]any {
	return map[string]any{"wildcard": map[string]any{field: map[string]any{
		"value":            "*" + wildcardEscaper.Replace(value) + "*",
		"case_insensitive": true,
	}}}
}

var sortFields = map[search.SortField]string{
	search.SortCreatedAt:   "created_at",
	search.SortSalaryFrom:  "salary_from",
	search.SortSalaryTo:    "salary_to",
	search.SortTitle:       "title.sort",
	search.SortCompanyName: "company.name.sort",
}

func buildSort(o search.Order) []any {
	field, ok := sortFields[o.Field]
	if !ok {
		field, o = sortFields[search.SortCreatedAt], search.DefaultOrder
	}
	return []any{
		map[string]any{field: map[string]any{"order": o.Direction()}},
		map[string]any{"id": map[string]any{"order": "asc"}},
	}
}

func searchBody(p search.Predicate, o search.Order, offset, limit int) map[string]any {
	return map[string]any{
		"query": buildQuery(p),
		"sort":  buildSort(o),
		"from":  offset,
		"size":  limit,
	}
}
