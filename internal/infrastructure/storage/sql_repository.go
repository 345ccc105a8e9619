package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"AutoBlog/internal/domain"
	"AutoBlog/internal/ports"
)

const (
	postsTable = "posts"
	// fixed width keeps lexical and chronological order identical
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

const schema = `CREATE TABLE IF NOT EXISTS posts (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	keyword       TEXT NOT NULL,
	score         DOUBLE PRECISION NOT NULL DEFAULT 0,
	published     BOOLEAN NOT NULL DEFAULT FALSE,
	published_url TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLRepository mirrors post metadata into Postgres or SQLite.
type SQLRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.PostIndex = (*SQLRepository)(nil)

// OpenSQL opens a database for a supported driver ("postgres" or "sqlite").
func OpenSQL(driver, dsn string) (*sql.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required for driver %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// NewSQLRepository wires a sql.DB; placeholders follow the driver.
func NewSQLRepository(db *sql.DB, driver string) *SQLRepository {
	var format sq.PlaceholderFormat = sq.Dollar
	if strings.EqualFold(driver, "sqlite") {
		format = sq.Question
	}
	return &SQLRepository{db: db, builder: sq.StatementBuilder.PlaceholderFormat(format)}
}

// EnsureSchema creates the posts table when missing.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts the post or refreshes its publication state.
func (r *SQLRepository) Upsert(ctx context.Context, post domain.Post) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert(postsTable).
		Columns("id", "title", "keyword", "score", "published", "published_url", "created_at").
		Values(
			post.ID,
			post.Title,
			post.Keyword,
			post.TrendData.Score,
			post.Published,
			post.PublishedURL,
			post.CreatedAt.UTC().Format(timeLayout),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE
              SET title = EXCLUDED.title,
                  published = EXCLUDED.published,
                  published_url = EXCLUDED.published_url,
                  updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}
	return nil
}

// Recent returns up to limit posts, newest first.
func (r *SQLRepository) Recent(ctx context.Context, limit int) ([]domain.ArchiveEntry, error) {
	if r.db == nil || limit <= 0 {
		return []domain.ArchiveEntry{}, nil
	}

	query, args, err := r.builder.
		Select("id", "title", "keyword", "published", "published_url", "created_at").
		From(postsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}

	result := make([]domain.ArchiveEntry, 0, limit)
	for rows.Next() {
		var (
			entry   domain.ArchiveEntry
			created string
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Keyword, &entry.Published, &entry.PublishedURL, &created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if entry.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		result = append(result, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Close releases the underlying database.
func (r *SQLRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
