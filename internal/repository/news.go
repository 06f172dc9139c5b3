package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ainews/internal/model"
)

// NewsStore is the persistence port for news records. URL uniqueness is
// enforced by the storage layer as the backstop against concurrent runs.
type NewsStore interface {
	Ensure(ctx context.Context) error
	ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error)
	InsertBatch(ctx context.Context, items []model.NewsItem) ([]model.NewsRecord, error)
	UpdateSummary(ctx context.Context, id, summary string) error
	UpdateAudioURL(ctx context.Context, id, audioURL string) error
	Latest(ctx context.Context, limit int) ([]model.NewsRecord, error)
	ByDate(ctx context.Context, day time.Time) ([]model.NewsRecord, error)
	Close() error
}

const newsColumns = "id, title, url, content, summary, source, published_date, audio_url, created_at, updated_at"

// PostgresNewsStore implements NewsStore on Postgres.
type PostgresNewsStore struct {
	db *sqlx.DB
}

var _ NewsStore = (*PostgresNewsStore)(nil)

// NewPostgresNewsStore opens a Postgres connection pool.
func NewPostgresNewsStore(databaseURL string) (*PostgresNewsStore, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &PostgresNewsStore{db: db}, nil
}

// NewPostgresNewsStoreFromDB wraps an existing connection, used by tests.
func NewPostgresNewsStoreFromDB(db *sqlx.DB) *PostgresNewsStore {
	return &PostgresNewsStore{db: db}
}

// Ensure creates the news table and its indexes if they do not exist.
func (s *PostgresNewsStore) Ensure(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS news_items (
		id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		content TEXT,
		summary TEXT,
		source TEXT NOT NULL,
		published_date TIMESTAMPTZ NOT NULL,
		audio_url TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_news_published_date ON news_items(published_date DESC);
	CREATE INDEX IF NOT EXISTS idx_news_source ON news_items(source);`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// ExistingURLs returns which of the given URLs are already stored.
func (s *PostgresNewsStore) ExistingURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(urls) == 0 {
		return existing, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT url FROM news_items WHERE url = ANY($1)`, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("querying existing urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		existing[url] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating urls: %w", err)
	}

	return existing, nil
}

// InsertBatch persists all items in a single multi-row insert and returns
// the created records with their assigned identifiers. The insert is
// atomic: either every item is stored or none is.
func (s *PostgresNewsStore) InsertBatch(ctx context.Context, items []model.NewsItem) ([]model.NewsRecord, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var (
		placeholders []string
		args         []interface{}
	)
	for i, item := range items {
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			uuid.NewString(),
			item.Title,
			item.URL,
			item.Content,
			item.Source,
			item.PublishedAt,
		)
	}

	query := fmt.Sprintf(`INSERT INTO news_items (id, title, url, content, source, published_date)
		VALUES %s
		RETURNING %s`, strings.Join(placeholders, ", "), newsColumns)

	var records []model.NewsRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("inserting news items: %w", err)
	}

	return records, nil
}

// UpdateSummary writes a summary through for a single record.
func (s *PostgresNewsStore) UpdateSummary(ctx context.Context, id, summary string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE news_items SET summary = $2, updated_at = NOW() WHERE id = $1`, id, summary); err != nil {
		return fmt.Errorf("updating summary for %s: %w", id, err)
	}
	return nil
}

// UpdateAudioURL writes an audio reference through for a single record.
func (s *PostgresNewsStore) UpdateAudioURL(ctx context.Context, id, audioURL string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE news_items SET audio_url = $2, updated_at = NOW() WHERE id = $1`, id, audioURL); err != nil {
		return fmt.Errorf("updating audio url for %s: %w", id, err)
	}
	return nil
}

// Latest returns the most recent records ordered by publish date.
func (s *PostgresNewsStore) Latest(ctx context.Context, limit int) ([]model.NewsRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM news_items ORDER BY published_date DESC LIMIT $1`, newsColumns)

	var records []model.NewsRecord
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("querying latest news: %w", err)
	}
	return records, nil
}

// ByDate returns the records published on the given calendar day.
func (s *PostgresNewsStore) ByDate(ctx context.Context, day time.Time) ([]model.NewsRecord, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	query := fmt.Sprintf(`SELECT %s FROM news_items
		WHERE published_date >= $1 AND published_date < $2
		ORDER BY published_date DESC`, newsColumns)

	var records []model.NewsRecord
	if err := s.db.SelectContext(ctx, &records, query, start, end); err != nil {
		return nil, fmt.Errorf("querying news by date: %w", err)
	}
	return records, nil
}

// Close closes the underlying connection pool.
func (s *PostgresNewsStore) Close() error {
	return s.db.Close()
}
