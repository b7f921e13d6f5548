package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// qb is the query builder with PostgreSQL placeholder format.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store is the optional local journal of landing-page submissions. It
// lets the dashboard show freshly created pages without an upstream
// refetch. The gateway runs without it when no database URL is
// configured.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres and applies pending migrations.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is required")
	}

	if err := migrate(databaseURL); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RecordSubmission journals a created landing page and returns the
// journal entry id.
func (s *Store) RecordSubmission(ctx context.Context, creator string, page model.LandingPage) (string, error) {
	id := uuid.NewString()
	query, args, err := qb.
		Insert("landing_submissions").
		Columns("id", "upstream_id", "creator", "title", "content").
		Values(id, page.ID, creator, page.Title, page.Content).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert query: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

// RecentSubmissions returns the newest journaled pages, most recent
// first.
func (s *Store) RecentSubmissions(ctx context.Context, limit int) ([]model.LandingPage, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := qb.
		Select("upstream_id", "creator", "title", "content", "created_at::text").
		From("landing_submissions").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var pages []model.LandingPage
	for rows.Next() {
		var page model.LandingPage
		if err := rows.Scan(&page.ID, &page.Creator, &page.Title, &page.Content, &page.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
