// Package postgres implements the listing store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"github.com/project-tktt/go-jobboard/internal/domain"
	"github.com/project-tktt/go-jobboard/internal/search"
	"github.com/project-tktt/go-jobboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store reads and writes listings in PostgreSQL
type Store struct {
	db *sql.DB
}

var (
	_ search.ListingStore = (*Store)(nil)
	_ store.Indexer       = (*Store)(nil)
)

// New opens a PostgreSQL connection and applies pending migrations
func New(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection without running migrations
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded schema migrations
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const fromClause = ` FROM job_listings l JOIN companies c ON c.id = l.company_id`

const listingColumns = `l.id, l.title, l.description, l.employment_type, l.location,
	l.salary_from, l.salary_to, l.benefits, l.status, l.created_at, l.updated_at,
	c.id, c.name, c.about, c.location, c.logo`

// Count returns the number of listings matching p
func (s *Store) Count(ctx context.Context, p search.Predicate) (int, error) {
	where, args := compileWhere(p)

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+fromClause+" WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

// FetchPage returns one ordered page of listings matching p
func (s *Store) FetchPage(ctx context.Context, p search.Predicate, o search.Order, offset, limit int) ([]domain.JobListing, error) {
	where, args := compileWhere(p)
	query := "SELECT " + listingColumns + fromClause +
		" WHERE " + where +
		" ORDER BY " + orderClause(o) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch page query: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.JobListing, 0, limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("fetch page scan: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Scan returns up to limit listings of any status with id > afterID, in id
// order. It is used to stream the table into other indexes.
func (s *Store) Scan(ctx context.Context, afterID string, limit int) ([]domain.JobListing, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+listingColumns+fromClause+" WHERE l.id > $1 ORDER BY l.id LIMIT $2",
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scan query: %w", err)
	}
	defer rows.Close()

	var listings []domain.JobListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanListing(rows *sql.Rows) (domain.JobListing, error) {
	var (
		l        domain.JobListing
		benefits pq.StringArray
	)
	err := rows.Scan(
		&l.ID, &l.Title, &l.Description, &l.EmploymentType, &l.Location,
		&l.SalaryFrom, &l.SalaryTo, &benefits, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		&l.Company.ID, &l.Company.Name, &l.Company.About, &l.Company.Location, &l.Company.Logo,
	)
	l.Benefits = []string(benefits)
	return l, err
}

const upsertCompany = `
	INSERT INTO companies (id, name, about, location, logo)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		about = EXCLUDED.about,
		location = EXCLUDED.location,
		logo = EXCLUDED.logo`

const upsertListing = `
	INSERT INTO job_listings (
		id, company_id, title, description, employment_type, location,
		salary_from, salary_to, benefits, status, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12
	)
	ON CONFLICT (id) DO UPDATE SET
		company_id = EXCLUDED.company_id,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		employment_type = EXCLUDED.employment_type,
		location = EXCLUDED.location,
		salary_from = EXCLUDED.salary_from,
		salary_to = EXCLUDED.salary_to,
		benefits = EXCLUDED.benefits,
		status = EXCLUDED.status,
		updated_at = EXCLUDED.updated_at`

// BulkIndex upserts listings and their companies in one transaction.
// Any failed row aborts the whole batch.
func (s *Store) BulkIndex(ctx context.Context, listings []*domain.JobListing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	companyStmt, err := tx.PrepareContext(ctx, upsertCompany)
	if err != nil {
		return fmt.Errorf("prepare company statement: %w", err)
	}
	defer companyStmt.Close()

	listingStmt, err := tx.PrepareContext(ctx, upsertListing)
	if err != nil {
		return fmt.Errorf("prepare listing statement: %w", err)
	}
	defer listingStmt.Close()

	for _, l := range listings {
		c := l.Company
		if _, err := companyStmt.ExecContext(ctx, c.ID, c.Name, c.About, c.Location, c.Logo); err != nil {
			return fmt.Errorf("upsert company %s: %w", c.ID, err)
		}

		benefits := l.Benefits
		if benefits == nil {
			benefits = []string{}
		}
		_, err := listingStmt.ExecContext(ctx,
			l.ID, c.ID, l.Title, l.Description, string(l.EmploymentType), l.Location,
			l.SalaryFrom, l.SalaryTo, pq.Array(benefits), string(l.Status), l.CreatedAt, l.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert listing %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
