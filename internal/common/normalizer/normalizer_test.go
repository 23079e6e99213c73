package normalizer

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/project-tktt/go-jobboard/internal/domain"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return &Normalizer{now: func() time.Time { return fixedNow }}
}

func TestNormalize_Fields(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))
	ev := &domain.ListingEvent{
		ID:             "  job-1 ",
		Title:          "  Senior   Engineer &amp; Lead ",
		Description:    "<p>Build things</p>",
		EmploymentType: "Full_Time",
		Location:       " Remote ",
		SalaryFrom:     -5,
		SalaryTo:       120000,
		Benefits:       []string{" 401k", "Dental", "", "401k", "  "},
		Status:         "active",
		CreatedAt:      created,
		Company:        domain.Company{Name: " Acme  Corp ", Logo: " /logo.png "},
	}

	l, err := newTestNormalizer().Normalize(ev)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if l.ID != "job-1" {
		t.Errorf("ID = %q", l.ID)
	}
	if l.Title != "Senior Engineer & Lead" {
		t.Errorf("Title = %q", l.Title)
	}
	if l.Description != "<p>Build things</p>" {
		t.Errorf("Description = %q, want HTML left for the cleaner", l.Description)
	}
	if l.EmploymentType != domain.EmploymentFullTime {
		t.Errorf("EmploymentType = %q", l.EmploymentType)
	}
	if l.Location != domain.LocationWorldwide {
		t.Errorf("Location = %q", l.Location)
	}
	if l.SalaryFrom != 0 || l.SalaryTo != 120000 {
		t.Errorf("salary = %d..%d", l.SalaryFrom, l.SalaryTo)
	}
	if !slices.Equal(l.Benefits, []string{"401k", "Dental"}) {
		t.Errorf("Benefits = %v", l.Benefits)
	}
	if l.Status != domain.StatusActive {
		t.Errorf("Status = %q", l.Status)
	}
	if !l.CreatedAt.Equal(created) || l.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", l.CreatedAt, created)
	}
	if !l.UpdatedAt.Equal(created) {
		t.Errorf("UpdatedAt = %v, want CreatedAt", l.UpdatedAt)
	}
	if l.Company.ID != "acme-corp" || l.Company.Name != "Acme Corp" || l.Company.Logo != "/logo.png" {
		t.Errorf("Company = %+v", l.Company)
	}
}

func TestNormalize_TimestampFallbacks(t *testing.T) {
	emitted := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	n := newTestNormalizer()
	company := domain.Company{ID: "c1"}

	l, err := n.Normalize(&domain.ListingEvent{ID: "a", Company: company, EmittedAt: emitted})
	if err != nil {
		t.Fatal(err)
	}
	if !l.CreatedAt.Equal(emitted) {
		t.Errorf("CreatedAt = %v, want emittedAt %v", l.CreatedAt, emitted)
	}

	l, err = n.Normalize(&domain.ListingEvent{ID: "b", Company: company})
	if err != nil {
		t.Fatal(err)
	}
	if !l.CreatedAt.Equal(fixedNow) || !l.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v/%v, want now", l.CreatedAt, l.UpdatedAt)
	}
}

func TestNormalize_UnknownValues(t *testing.T) {
	l, err := newTestNormalizer().Normalize(&domain.ListingEvent{
		ID:             "x",
		EmploymentType: "Freelance",
		Status:         "published",
		Location:       "Germany",
		Company:        domain.Company{ID: "c1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.EmploymentType != "freelance" {
		t.Errorf("EmploymentType = %q, want lower-cased passthrough", l.EmploymentType)
	}
	if l.Status != domain.StatusDraft {
		t.Errorf("Status = %q, want DRAFT", l.Status)
	}
	if l.Location != "Germany" {
		t.Errorf("Location = %q", l.Location)
	}
	if l.Benefits == nil {
		t.Error("Benefits is nil, want empty slice")
	}
}

func TestNormalize_Errors(t *testing.T) {
	n := newTestNormalizer()
	if _, err := n.Normalize(&domain.ListingEvent{ID: "  ", Company: domain.Company{ID: "c"}}); !errors.Is(err, ErrMissingID) {
		t.Errorf("blank id: err = %v", err)
	}
	if _, err := n.Normalize(&domain.ListingEvent{ID: "a", Company: domain.Company{Name: " !!! "}}); !errors.Is(err, ErrMissingCompany) {
		t.Errorf("no company: err = %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Acme Corp", "acme-corp"},
		{"  Globex, Inc. ", "globex-inc"},
		{"Café Zürich 2", "café-zürich-2"},
		{"---", ""},
		{"A&B", "a-b"},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
