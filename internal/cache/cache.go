// Package cache persists shallow search results in SQLite so repeated runs
// against the same playlist do not re-invoke the provider for queries it has
// already answered. Entries expire after a TTL; the download archive file
// remains the dedup mechanism for downloads themselves.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/provider"
	"github.com/desertthunder/trackdown/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_results (
	query      TEXT NOT NULL,
	fetch_limit INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT NOT NULL,
	title      TEXT NOT NULL,
	uploader   TEXT NOT NULL,
	duration   REAL NOT NULL,
	url        TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	PRIMARY KEY (query, fetch_limit, position)
);`

// DefaultTTL matches the ttl_hours default in config.example.toml.
const DefaultTTL = 168 * time.Hour

// SearchCache stores shallow search results keyed by (query, limit).
type SearchCache struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (and migrates) a search cache database at path.
func Open(path string, ttl time.Duration) (*SearchCache, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SearchCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (c *SearchCache) Close() error {
	return c.db.Close()
}

// Get returns cached results for (query, limit) if present and fresh.
// The second return value reports a hit; a cached empty result set is a hit.
func (c *SearchCache) Get(query string, limit int) ([]models.CandidateTrack, bool) {
	cutoff := time.Now().Add(-c.ttl)

	var fetched time.Time
	err := c.db.QueryRow(
		`SELECT fetched_at FROM search_results WHERE query = ? AND fetch_limit = ? ORDER BY position LIMIT 1`,
		query, limit,
	).Scan(&fetched)
	if err != nil || fetched.Before(cutoff) {
		return nil, false
	}

	rows, err := c.db.Query(
		`SELECT id, title, uploader, duration, url FROM search_results
		 WHERE query = ? AND fetch_limit = ? AND position >= 0 ORDER BY position`,
		query, limit,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	tracks := []models.CandidateTrack{}
	for rows.Next() {
		var t models.CandidateTrack
		if err := rows.Scan(&t.ID, &t.Title, &t.Uploader, &t.Duration, &t.URL); err != nil {
			return nil, false
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err() == nil
}

// Put stores results for (query, limit), replacing any previous rows.
// Empty result sets are stored as a single sentinel row at position -1 so
// that "searched, found nothing" is itself cacheable.
func (c *SearchCache) Put(query string, limit int, tracks []models.CandidateTrack) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM search_results WHERE query = ? AND fetch_limit = ?`, query, limit,
	); err != nil {
		return fmt.Errorf("failed to clear cache rows: %w", err)
	}

	now := time.Now()
	if len(tracks) == 0 {
		if _, err := tx.Exec(
			`INSERT INTO search_results (query, fetch_limit, position, id, title, uploader, duration, url, fetched_at)
			 VALUES (?, ?, -1, '', '', '', 0, '', ?)`,
			query, limit, now,
		); err != nil {
			return fmt.Errorf("failed to write cache sentinel: %w", err)
		}
	}
	for i, t := range tracks {
		if _, err := tx.Exec(
			`INSERT INTO search_results (query, fetch_limit, position, id, title, uploader, duration, url, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			query, limit, i, t.ID, t.Title, t.Uploader, t.Duration, t.URL, now,
		); err != nil {
			return fmt.Errorf("failed to write cache row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache transaction: %w", err)
	}
	return nil
}

// Stats reports the number of distinct cached queries and total rows.
func (c *SearchCache) Stats() (queries, rows int, err error) {
	if err = c.db.QueryRow(
		`SELECT COUNT(DISTINCT query || '|' || fetch_limit), COUNT(*) FROM search_results`,
	).Scan(&queries, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return queries, rows, nil
}

// Clear removes every cached result.
func (c *SearchCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM search_results`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// CachingProvider decorates a [provider.Provider], serving shallow searches
// from the cache. Fetch and Download always pass through: metadata checks
// and archive consultation stay live.
type CachingProvider struct {
	inner provider.Provider
	cache *SearchCache
}

// Wrap returns p decorated with c. A nil cache returns p unchanged.
func Wrap(p provider.Provider, c *SearchCache) provider.Provider {
	if c == nil {
		return p
	}
	return &CachingProvider{inner: p, cache: c}
}

func (p *CachingProvider) Search(ctx context.Context, query string, limit int) ([]models.CandidateTrack, error) {
	if tracks, ok := p.cache.Get(query, limit); ok {
		return tracks, nil
	}

	tracks, err := p.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	// Cache write failures are not worth failing a search over.
	_ = p.cache.Put(query, limit, tracks)
	return tracks, nil
}

func (p *CachingProvider) Fetch(ctx context.Context, url string) (*models.CandidateTrack, error) {
	return p.inner.Fetch(ctx, url)
}

func (p *CachingProvider) Download(ctx context.Context, req provider.DownloadRequest) error {
	return p.inner.Download(ctx, req)
}
