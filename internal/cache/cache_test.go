package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/trackdown/internal/models"
	"github.com/desertthunder/trackdown/internal/provider"
)

func newTestCache(t *testing.T, ttl time.Duration) *SearchCache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSearchCacheRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Hour)

	tracks := []models.CandidateTrack{
		{ID: "abc", Title: "First", Uploader: "Channel", Duration: 200, URL: "https://example.com/abc"},
		{ID: "def", Title: "Second", Uploader: "Channel", Duration: 180, URL: "https://example.com/def"},
	}

	if _, ok := c.Get("artist title", 3); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Put("artist title", 3, tracks); err != nil {
		t.Fatalf("failed to store results: %v", err)
	}

	got, ok := c.Get("artist title", 3)
	if !ok {
		t.Fatal("expected hit after store")
	}
	if len(got) != 2 || got[0].ID != "abc" || got[1].ID != "def" {
		t.Fatalf("unexpected cached tracks: %+v", got)
	}

	if _, ok := c.Get("artist title", 1); ok {
		t.Fatal("expected limit to be part of the key")
	}
}

func TestSearchCacheEmptyResult(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.Put("obscure query", 3, nil); err != nil {
		t.Fatalf("failed to store empty result: %v", err)
	}

	got, ok := c.Get("obscure query", 3)
	if !ok {
		t.Fatal("expected hit for cached empty result")
	}
	if len(got) != 0 {
		t.Fatalf("expected no tracks, got %+v", got)
	}
}

func TestSearchCacheExpiry(t *testing.T) {
	c := newTestCache(t, time.Nanosecond)

	if err := c.Put("stale query", 3, []models.CandidateTrack{{ID: "abc"}}); err != nil {
		t.Fatalf("failed to store results: %v", err)
	}

	time.Sleep(time.Millisecond)

	if _, ok := c.Get("stale query", 3); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestSearchCacheStatsAndClear(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := c.Put("one", 3, []models.CandidateTrack{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("failed to store results: %v", err)
	}
	if err := c.Put("two", 1, []models.CandidateTrack{{ID: "c"}}); err != nil {
		t.Fatalf("failed to store results: %v", err)
	}

	queries, rows, err := c.Stats()
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if queries != 2 || rows != 3 {
		t.Fatalf("expected 2 queries and 3 rows, got %d and %d", queries, rows)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("failed to clear cache: %v", err)
	}
	queries, rows, err = c.Stats()
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	if queries != 0 || rows != 0 {
		t.Fatalf("expected empty cache after clear, got %d queries and %d rows", queries, rows)
	}
}

type countingProvider struct {
	searches int
	tracks   []models.CandidateTrack
}

func (p *countingProvider) Search(_ context.Context, _ string, _ int) ([]models.CandidateTrack, error) {
	p.searches++
	return p.tracks, nil
}

func (p *countingProvider) Fetch(_ context.Context, _ string) (*models.CandidateTrack, error) {
	return nil, nil
}

func (p *countingProvider) Download(_ context.Context, _ provider.DownloadRequest) error {
	return nil
}

func TestCachingProvider(t *testing.T) {
	c := newTestCache(t, time.Hour)
	inner := &countingProvider{tracks: []models.CandidateTrack{{ID: "abc", Title: "Song"}}}
	p := Wrap(inner, c)

	for range 2 {
		got, err := p.Search(context.Background(), "artist song", 3)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != "abc" {
			t.Fatalf("unexpected tracks: %+v", got)
		}
	}

	if inner.searches != 1 {
		t.Fatalf("expected one live search, got %d", inner.searches)
	}
}

func TestWrapNilCache(t *testing.T) {
	inner := &countingProvider{}
	if got := Wrap(inner, nil); got != provider.Provider(inner) {
		t.Fatal("expected nil cache to return the inner provider")
	}
}
