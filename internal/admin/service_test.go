// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harutoki/tsundoku/internal/admin"
)

// fakeRepository serves canned aggregates for service tests.
type fakeRepository struct {
	users, books, folders int
	recent                []*admin.BookRow

	recentCalls int
	lastLimit   int
}

func (r *fakeRepository) Counts(_ context.Context) (int, int, int, error) {
	return r.users, r.books, r.folders, nil
}

func (r *fakeRepository) ListRecentBooks(_ context.Context, limit int) ([]*admin.BookRow, error) {
	r.recentCalls++
	r.lastLimit = limit
	if len(r.recent) > limit {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

func (r *fakeRepository) ListUsers(_ context.Context) ([]*admin.UserRow, error) {
	return nil, nil
}

func (r *fakeRepository) DeleteUser(_ context.Context, _ string) error { return nil }
func (r *fakeRepository) DeleteBook(_ context.Context, _ string) error { return nil }

// memoryCache is an in-process StatsCache.
type memoryCache struct {
	stats *admin.Stats
}

func (c *memoryCache) Get(_ context.Context) (*admin.Stats, bool, error) {
	if c.stats == nil {
		return nil, false, nil
	}
	return c.stats, true, nil
}

func (c *memoryCache) Set(_ context.Context, stats *admin.Stats, _ time.Duration) error {
	c.stats = stats
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context) error {
	c.stats = nil
	return nil
}

func rowWithGenres(id string, genres ...string) *admin.BookRow {
	return &admin.BookRow{ID: id, Genre: genres}
}

/*
TestService_Stats_ActiveUserEstimate verifies the fixed-ratio activity
estimate over the registered total.
*/
func TestService_Stats_ActiveUserEstimate(t *testing.T) {
	tests := []struct {
		users int
		want  int
	}{
		{0, 0},
		{1, 1},   // 0.7 rounds to 1
		{10, 7},
		{13, 9},  // 9.1 rounds down
		{15, 11}, // 10.5 rounds up
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("users_%d", tt.users), func(t *testing.T) {
			repo := &fakeRepository{users: tt.users}
			service := admin.NewService(repo, nil, slog.Default())

			stats, err := service.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.ActiveUsers)
		})
	}
}

/*
TestService_Stats_TopGenres verifies the genre digest is ordered by
frequency, tie-broken alphabetically, and capped at ten buckets.
*/
func TestService_Stats_TopGenres(t *testing.T) {
	repo := &fakeRepository{
		recent: []*admin.BookRow{
			rowWithGenres("1", "Action", "Fantasy"),
			rowWithGenres("2", "Action"),
			rowWithGenres("3", "Romance", "Fantasy"),
			rowWithGenres("4", "Action", ""),
		},
	}
	// Eleven single-hit genres to overflow the cap
	for i := 0; i < 11; i++ {
		repo.recent = append(repo.recent, rowWithGenres(fmt.Sprintf("x%d", i), fmt.Sprintf("Niche-%02d", i)))
	}

	service := admin.NewService(repo, nil, slog.Default())

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.TopGenres, 10)
	assert.Equal(t, admin.GenreCount{Genre: "Action", Count: 3}, stats.TopGenres[0])
	assert.Equal(t, admin.GenreCount{Genre: "Fantasy", Count: 2}, stats.TopGenres[1])
	assert.Equal(t, admin.GenreCount{Genre: "Romance", Count: 1}, stats.TopGenres[2])

	// The empty genre string is never counted
	for _, bucket := range stats.TopGenres {
		assert.NotEmpty(t, bucket.Genre)
	}
}

/*
TestService_Stats_SampleCap verifies the aggregation asks for at most the
configured number of recent books.
*/
func TestService_Stats_SampleCap(t *testing.T) {
	repo := &fakeRepository{}
	service := admin.NewService(repo, nil, slog.Default())

	_, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, admin.RecentBookLimit, repo.lastLimit)
}

/*
TestService_Stats_CacheHit verifies a cached overview short-circuits the
database entirely.
*/
func TestService_Stats_CacheHit(t *testing.T) {
	repo := &fakeRepository{users: 10}
	cache := &memoryCache{}
	service := admin.NewService(repo, cache, slog.Default())

	first, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.recentCalls)

	second, err := service.Stats(context.Background())
	require.NoError(t, err)

	// No second aggregation pass, identical payload
	assert.Equal(t, 1, repo.recentCalls)
	assert.Equal(t, first, second)
}

/*
TestService_Delete_PurgesCachedOverview verifies moderation deletes drop
the cached overview so the next dashboard read recomputes instead of
serving pre-delete totals until expiry.
*/
func TestService_Delete_PurgesCachedOverview(t *testing.T) {
	tests := []struct {
		name   string
		delete func(*admin.Service) error
	}{
		{"user", func(s *admin.Service) error { return s.DeleteUser(context.Background(), "user-1") }},
		{"book", func(s *admin.Service) error { return s.DeleteBook(context.Background(), "book-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{users: 10}
			cache := &memoryCache{}
			service := admin.NewService(repo, cache, slog.Default())

			_, err := service.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, repo.recentCalls)

			require.NoError(t, tt.delete(service))
			assert.Nil(t, cache.stats)

			// Next read aggregates again instead of hitting the stale entry
			_, err = service.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, repo.recentCalls)
		})
	}
}

/*
TestService_ListRecentBooks_ClampsLimit verifies that caller-supplied
limits stay within the listing cap.
*/
func TestService_ListRecentBooks_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"within_cap", 25, 25},
		{"zero_requests_cap", 0, admin.RecentBookLimit},
		{"negative_requests_cap", -5, admin.RecentBookLimit},
		{"oversized_clamped", admin.RecentBookLimit + 50, admin.RecentBookLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service := admin.NewService(repo, nil, slog.Default())

			_, err := service.ListRecentBooks(context.Background(), tt.limit)
			require.NoError(t, err)

			assert.Equal(t, tt.want, repo.lastLimit)
		})
	}
}
