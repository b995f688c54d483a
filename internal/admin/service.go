// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

package admin

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"
)

// # Service Layer

// Service computes the aggregate usage overview and performs row-level
// moderation.
type Service struct {
	repository Repository
	cache      StatsCache
	logger     *slog.Logger

	// now is swappable for deterministic timestamp tests.
	now func() time.Time
}

// NewService constructs a new [Service].
//
// The cache may be nil (tests, cache outages); the overview is then
// recomputed on every call.
func NewService(repository Repository, cache StatsCache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// # Overview

/*
Stats returns the aggregate usage overview, served from cache when fresh.

Description: On a cache miss the overview is rebuilt from the global counts
and a capped sample of the newest books, then cached for [StatsCacheTTL].
Cache transport failures degrade to a recompute, never to an error.

Parameters:
  - context: context.Context

Returns:
  - *Stats: The overview
  - error: Database retrieval failures
*/
func (service *Service) Stats(context context.Context) (*Stats, error) {
	if service.cache != nil {
		cached, hit, err := service.cache.Get(context)
		if err != nil {
			service.logger.Warn("admin_stats_cache_read_failed", slog.Any("error", err))
		}
		if hit {
			return cached, nil
		}
	}

	users, books, folders, err := service.repository.Counts(context)
	if err != nil {
		return nil, err
	}

	recent, err := service.repository.ListRecentBooks(context, RecentBookLimit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:   users,
		TotalBooks:   books,
		TotalFolders: folders,
		// Placeholder heuristic until real session-based activity tracking
		// lands: assume a fixed share of registered accounts is active.
		ActiveUsers: int(math.Round(float64(users) * ActiveUserRatio)),
		TopGenres:   topGenres(recent, TopGenreLimit),
		GeneratedAt: service.now(),
	}

	if service.cache != nil {
		if err := service.cache.Set(context, stats, StatsCacheTTL); err != nil {
			service.logger.Warn("admin_stats_cache_write_failed", slog.Any("error", err))
		}
	}

	return stats, nil
}

// topGenres reduces the sampled books into the most frequent genre buckets.
//
// Ties are broken alphabetically so the digest is stable between calls.
func topGenres(books []*BookRow, limit int) []GenreCount {
	counts := make(map[string]int)
	for _, b := range books {
		for _, genre := range b.Genre {
			if genre == "" {
				continue
			}
			counts[genre]++
		}
	}

	buckets := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		buckets = append(buckets, GenreCount{Genre: genre, Count: count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Genre < buckets[j].Genre
	})

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}

	return buckets
}

// # Listings & Moderation

/*
ListUsers returns every account with its derived book count.

Parameters:
  - context: context.Context

Returns:
  - []*UserRow: Listing rows
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context) ([]*UserRow, error) {
	return service.repository.ListUsers(context)
}

/*
ListRecentBooks returns the newest books across every library.

Parameters:
  - context: context.Context
  - limit: int, clamped into [1, RecentBookLimit]; non-positive values
    request the full cap

Returns:
  - []*BookRow: Listing rows
  - error: Retrieval failures
*/
func (service *Service) ListRecentBooks(context context.Context, limit int) ([]*BookRow, error) {
	if limit <= 0 || limit > RecentBookLimit {
		limit = RecentBookLimit
	}
	return service.repository.ListRecentBooks(context, limit)
}

/*
DeleteUser removes an account and its entire library.

Description: The cached overview is purged afterwards so the dashboard
reflects the deletion immediately instead of after cache expiry.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) DeleteUser(context context.Context, userID string) error {
	if err := service.repository.DeleteUser(context, userID); err != nil {
		return err
	}

	service.logger.Info("admin_user_deleted", slog.String("user_id", userID))
	service.invalidateStats(context)

	return nil
}

/*
DeleteBook removes a single book from any library.

Description: The cached overview is purged afterwards so the dashboard
reflects the deletion immediately instead of after cache expiry.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) DeleteBook(context context.Context, bookID string) error {
	if err := service.repository.DeleteBook(context, bookID); err != nil {
		return err
	}

	service.logger.Info("admin_book_deleted", slog.String("book_id", bookID))
	service.invalidateStats(context)

	return nil
}

// invalidateStats purges the cached overview after a moderation change.
// Cache transport failures only delay freshness until expiry, so they are
// logged rather than surfaced.
func (service *Service) invalidateStats(context context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context); err != nil {
		service.logger.Warn("admin_stats_cache_invalidate_failed", slog.Any("error", err))
	}
}
