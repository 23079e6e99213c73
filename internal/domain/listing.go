package domain

import (
	"strings"
	"time"
)

// Company is the employer that owns a listing
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	About    string `json:"about"`
	Location string `json:"location"`
	Logo     string `json:"logo"`
}

// JobListing is a single job posting as stored and searched
type JobListing struct {
	ID             string         `json:"id"`
	Title          string         `json:"jobTitle"`
	Description    string         `json:"jobDescription"`
	EmploymentType EmploymentType `json:"employmentType"`
	Location       string         `json:"location"`
	SalaryFrom     int            `json:"salaryFrom"`
	SalaryTo       int            `json:"salaryTo"`
	Benefits       []string       `json:"benefits"`
	Status         ListingStatus  `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	Company Company `json:"company"`
}

// ListingEvent carries a created or edited listing from the posting flow
// to the sync worker. Fields are raw: they are normalized before indexing.
type ListingEvent struct {
	ID             string    `json:"id"`
	Title          string    `json:"jobTitle"`
	Description    string    `json:"jobDescription"` // rich-text HTML
	EmploymentType string    `json:"employmentType"`
	Location       string    `json:"location"`
	SalaryFrom     int       `json:"salaryFrom"`
	SalaryTo       int       `json:"salaryTo"`
	Benefits       []string  `json:"benefits"`
	Status         string    `json:"status"`
	Company        Company   `json:"company"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	EmittedAt      time.Time `json:"emittedAt"`
}

// EmploymentType is the employment-type tag of a listing
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

// ParseEmploymentType folds the spellings seen in posting forms
// ("Full-Time", "full_time", "fulltime") onto the canonical tag.
// Unknown values come back lower-cased with ok=false.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "fulltime":
		return EmploymentFullTime, true
	case "parttime":
		return EmploymentPartTime, true
	case "contract", "contractor":
		return EmploymentContract, true
	case "internship", "intern":
		return EmploymentInternship, true
	}
	return EmploymentType(strings.ToLower(strings.TrimSpace(s))), false
}

// ListingStatus is the publication status of a listing
type ListingStatus string

const (
	StatusDraft   ListingStatus = "DRAFT"
	StatusActive  ListingStatus = "ACTIVE"
	StatusExpired ListingStatus = "EXPIRED"
)

// ParseListingStatus returns the status for s, or DRAFT when s is unknown.
func ParseListingStatus(s string) ListingStatus {
	switch st := ListingStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusDraft, StatusActive, StatusExpired:
		return st
	}
	return StatusDraft
}

// LocationWorldwide is the location value used for remote listings.
// As a search filter it means "any location", not "remote only".
const LocationWorldwide = "worldwide"
