package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

const (
	// DefaultPageSize is the number of listings per result page
	DefaultPageSize = 6
	// DefaultSalaryCeiling is the salaryMax value meaning "no upper bound"
	DefaultSalaryCeiling = 200000
	// MaxSalary is the largest salary bound a store is asked to compare.
	// Salaries are stored as 32-bit integers.
	MaxSalary = math.MaxInt32
	// MaxDatePostedDays caps the date-posted window at a hundred years
	MaxDatePostedDays = 36500
)

// FilterRequest is the decoded search form. Zero values mean "no filter"
// except SalaryMax, where the ceiling means "no filter".
type FilterRequest struct {
	Page           int
	PageSize       int
	JobTypes       []domain.EmploymentType
	Location       string
	Search         string
	Company        string
	SalaryMin      int
	SalaryMax      int
	DatePostedDays int
	SortBy         string
	SortOrder      string
}

// ParseQuery decodes the job search query string. It never fails: values
// that do not parse fall back to their defaults.
func ParseQuery(q url.Values, opts Options) FilterRequest {
	opts = opts.withDefaults()

	req := FilterRequest{
		Page:      positiveInt(q.Get("page"), 1),
		PageSize:  opts.PageSize,
		JobTypes:  parseJobTypes(q.Get("jobTypes")),
		Location:  strings.TrimSpace(q.Get("location")),
		Search:    strings.TrimSpace(q.Get("search")),
		Company:   strings.TrimSpace(q.Get("company")),
		SalaryMin: min(positiveInt(q.Get("salaryMin"), 0), MaxSalary),
		SalaryMax: min(positiveInt(q.Get("salaryMax"), opts.SalaryCeiling), MaxSalary),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: strings.TrimSpace(q.Get("sortOrder")),
	}
	req.DatePostedDays = min(positiveInt(q.Get("datePosted"), 0), MaxDatePostedDays)
	if req.SortBy == "" {
		req.SortBy = string(SortCreatedAt)
	}
	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}
	return req
}

// Values encodes the request back to query parameters, omitting defaults.
func (r FilterRequest) Values(opts Options) url.Values {
	opts = opts.withDefaults()
	v := url.Values{}
	if r.Page > 1 {
		v.Set("page", strconv.Itoa(r.Page))
	}
	if len(r.JobTypes) > 0 {
		types := make([]string, len(r.JobTypes))
		for i, t := range r.JobTypes {
			types[i] = string(t)
		}
		v.Set("jobTypes", strings.Join(types, ","))
	}
	setIf := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setIf("location", r.Location)
	setIf("search", r.Search)
	setIf("company", r.Company)
	if r.SalaryMin > 0 {
		v.Set("salaryMin", strconv.Itoa(r.SalaryMin))
	}
	if r.SalaryMax > 0 && r.SalaryMax < opts.SalaryCeiling {
		v.Set("salaryMax", strconv.Itoa(r.SalaryMax))
	}
	if r.DatePostedDays > 0 {
		v.Set("datePosted", strconv.Itoa(r.DatePostedDays))
	}
	if r.SortBy != "" && r.SortBy != string(SortCreatedAt) {
		v.Set("sortBy", r.SortBy)
	}
	if r.SortOrder != "" && r.SortOrder != "desc" {
		v.Set("sortOrder", r.SortOrder)
	}
	return v
}

// positiveInt parses s as an integer > 0, returning def otherwise.
// "0" falls back to def as well, matching the search form's behaviour
// where salaryMax=0 means "no upper bound".
func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseJobTypes(s string) []domain.EmploymentType {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var types []domain.EmploymentType
	seen := make(map[domain.EmploymentType]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		// unknown tags are kept and match no listing
		t, _ := domain.ParseEmploymentType(part)
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types
}
