package normalizer

import (
	"errors"
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

var (
	// ErrMissingID is returned for an event without a listing id
	ErrMissingID = errors.New("listing event has no id")
	// ErrMissingCompany is returned when neither company id nor name is set
	ErrMissingCompany = errors.New("listing event has no company")
)

// Normalizer converts ListingEvent to the indexed JobListing format
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize converts a ListingEvent to a JobListing. The description is
// left as HTML; text cleaning happens after normalization.
func (n *Normalizer) Normalize(ev *domain.ListingEvent) (*domain.JobListing, error) {
	id := strings.TrimSpace(ev.ID)
	if id == "" {
		return nil, ErrMissingID
	}

	company, err := normalizeCompany(ev.Company)
	if err != nil {
		return nil, err
	}

	empType, _ := domain.ParseEmploymentType(ev.EmploymentType)

	l := &domain.JobListing{
		ID:             id,
		Title:          cleanText(ev.Title),
		Description:    strings.TrimSpace(ev.Description),
		EmploymentType: empType,
		Location:       normalizeLocation(ev.Location),
		SalaryFrom:     max(ev.SalaryFrom, 0),
		SalaryTo:       max(ev.SalaryTo, 0),
		Benefits:       normalizeBenefits(ev.Benefits),
		Status:         domain.ParseListingStatus(ev.Status),
		CreatedAt:      ev.CreatedAt,
		UpdatedAt:      ev.UpdatedAt,
		Company:        company,
	}

	if l.CreatedAt.IsZero() {
		l.CreatedAt = ev.EmittedAt
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = n.now()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()

	return l, nil
}

func normalizeCompany(c domain.Company) (domain.Company, error) {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = cleanText(c.Name)
	c.Location = cleanText(c.Location)
	c.Logo = strings.TrimSpace(c.Logo)
	c.About = strings.TrimSpace(c.About)

	if c.ID == "" {
		c.ID = slugify(c.Name)
	}
	if c.ID == "" {
		return c, ErrMissingCompany
	}
	return c, nil
}

// remoteAliases are location spellings folded onto domain.LocationWorldwide
var remoteAliases = map[string]bool{
	"worldwide":  true,
	"world-wide": true,
	"world wide": true,
	"remote":     true,
	"anywhere":   true,
}

func normalizeLocation(loc string) string {
	loc = cleanText(loc)
	if remoteAliases[strings.ToLower(loc)] {
		return domain.LocationWorldwide
	}
	return loc
}

// normalizeBenefits trims tags and drops blanks and exact duplicates,
// keeping the first occurrence order.
func normalizeBenefits(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, b := range in {
		b = cleanText(b)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// cleanText decodes HTML entities and collapses whitespace runs
func cleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// slugify lower-cases s and joins its letter/digit runs with dashes
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
