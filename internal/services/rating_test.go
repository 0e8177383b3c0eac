package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscout/internal/domain"
)

func TestRatingService_RateOrganizer(t *testing.T) {
	ctx := context.Background()
	organizer := &domain.User{ID: "user-org", Email: "org@example.com", Name: "Org"}

	t.Run("stores the rating and refreshes the cache", func(t *testing.T) {
		repo := newFakeRatingRepo()
		cache := newFakeRatingCache()
		svc := NewRatingService(repo, newFakeUserRepo(organizer), cache, time.Second)

		rating, err := svc.RateOrganizer(ctx, "user-org", "user-1", 4, "great host")
		require.NoError(t, err)
		assert.NotEmpty(t, rating.ID)
		assert.Equal(t, 4, rating.Score)

		cached, ok := cache.Get(ctx, "user-org")
		require.True(t, ok)
		assert.Equal(t, 4.0, cached.Average)
		assert.Equal(t, 1, cached.Count)
	})

	t.Run("re-rating replaces the previous score", func(t *testing.T) {
		repo := newFakeRatingRepo()
		svc := NewRatingService(repo, newFakeUserRepo(organizer), nil, time.Second)

		_, err := svc.RateOrganizer(ctx, "user-org", "user-1", 2, "")
		require.NoError(t, err)
		_, err = svc.RateOrganizer(ctx, "user-org", "user-1", 5, "")
		require.NoError(t, err)

		agg, err := svc.GetOrganizerRating(ctx, "user-org")
		require.NoError(t, err)
		assert.Equal(t, 5.0, agg.Average)
		assert.Equal(t, 1, agg.Count)
	})

	t.Run("score out of range", func(t *testing.T) {
		svc := NewRatingService(newFakeRatingRepo(), newFakeUserRepo(organizer), nil, time.Second)
		for _, score := range []int{0, 6, -1} {
			_, err := svc.RateOrganizer(ctx, "user-org", "user-1", score, "")
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	})

	t.Run("self rating", func(t *testing.T) {
		svc := NewRatingService(newFakeRatingRepo(), newFakeUserRepo(organizer), nil, time.Second)
		_, err := svc.RateOrganizer(ctx, "user-org", "user-org", 5, "")
		require.ErrorIs(t, err, domain.ErrSelfRating)
	})

	t.Run("unknown organizer", func(t *testing.T) {
		svc := NewRatingService(newFakeRatingRepo(), newFakeUserRepo(), nil, time.Second)
		_, err := svc.RateOrganizer(ctx, "missing", "user-1", 5, "")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRatingService_AggregatesFor(t *testing.T) {
	ctx := context.Background()

	t.Run("averages round to one decimal", func(t *testing.T) {
		repo := newFakeRatingRepo()
		require.NoError(t, repo.Upsert(ctx, &domain.Rating{ID: "rt-1", OrganizerID: "org-1", RaterID: "user-1", Score: 4}))
		require.NoError(t, repo.Upsert(ctx, &domain.Rating{ID: "rt-2", OrganizerID: "org-1", RaterID: "user-2", Score: 5}))
		require.NoError(t, repo.Upsert(ctx, &domain.Rating{ID: "rt-3", OrganizerID: "org-1", RaterID: "user-3", Score: 5}))
		svc := NewRatingService(repo, newFakeUserRepo(), nil, time.Second)

		aggs, err := svc.AggregatesFor(ctx, []string{"org-1", "org-unrated"})
		require.NoError(t, err)

		require.Contains(t, aggs, "org-1")
		assert.Equal(t, 4.7, aggs["org-1"].Average)
		assert.Equal(t, 3, aggs["org-1"].Count)
		assert.NotContains(t, aggs, "org-unrated")
	})

	t.Run("cache hits skip the repository", func(t *testing.T) {
		repo := newFakeRatingRepo()
		cache := newFakeRatingCache()
		cache.Set(ctx, "org-1", domain.OrganizerRating{Average: 4.0, Count: 8})
		svc := NewRatingService(repo, newFakeUserRepo(), cache, time.Second)

		aggs, err := svc.AggregatesFor(ctx, []string{"org-1"})
		require.NoError(t, err)

		assert.Equal(t, domain.OrganizerRating{Average: 4.0, Count: 8}, aggs["org-1"])
		assert.Equal(t, 0, repo.aggregateCalls)
	})

	t.Run("misses are backfilled into the cache", func(t *testing.T) {
		repo := newFakeRatingRepo()
		require.NoError(t, repo.Upsert(ctx, &domain.Rating{ID: "rt-1", OrganizerID: "org-1", RaterID: "user-1", Score: 3}))
		cache := newFakeRatingCache()
		svc := NewRatingService(repo, newFakeUserRepo(), cache, time.Second)

		_, err := svc.AggregatesFor(ctx, []string{"org-1"})
		require.NoError(t, err)

		cached, ok := cache.Get(ctx, "org-1")
		require.True(t, ok)
		assert.Equal(t, 3.0, cached.Average)
	})

	t.Run("no organizers, no query", func(t *testing.T) {
		repo := newFakeRatingRepo()
		svc := NewRatingService(repo, newFakeUserRepo(), nil, time.Second)

		aggs, err := svc.AggregatesFor(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, aggs)
		assert.Equal(t, 0, repo.aggregateCalls)
	})
}

func TestRatingService_GetOrganizerRating(t *testing.T) {
	ctx := context.Background()

	t.Run("unrated organizer yields a zero aggregate", func(t *testing.T) {
		svc := NewRatingService(newFakeRatingRepo(), newFakeUserRepo(), nil, time.Second)
		agg, err := svc.GetOrganizerRating(ctx, "org-1")
		require.NoError(t, err)
		assert.Equal(t, &domain.OrganizerRating{}, agg)
	})
}
