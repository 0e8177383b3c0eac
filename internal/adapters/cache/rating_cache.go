package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eventscout/internal/domain"
)

const ratingKeyPrefix = "rating:organizer:"

// RatingCache caches organizer rating aggregates in Redis with a short TTL.
// Every failure is treated as a cache miss: discovery must keep working when
// Redis is down.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRatingCache returns a RatingCache. A nil client yields a pass-through
// cache that never hits.
func NewRatingCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RatingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RatingCache{client: client, ttl: ttl, logger: logger}
}

func (c *RatingCache) Get(ctx context.Context, organizerID string) (*domain.OrganizerRating, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, ratingKeyPrefix+organizerID).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "rating cache get failed", "organizer_id", organizerID, "err", err)
		}
		return nil, false
	}
	var agg domain.OrganizerRating
	if err := json.Unmarshal([]byte(raw), &agg); err != nil {
		c.logger.WarnContext(ctx, "rating cache entry corrupt", "organizer_id", organizerID, "err", err)
		return nil, false
	}
	return &agg, true
}

func (c *RatingCache) Set(ctx context.Context, organizerID string, agg domain.OrganizerRating) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ratingKeyPrefix+organizerID, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "rating cache set failed", "organizer_id", organizerID, "err", err)
	}
}

var _ domain.RatingCache = (*RatingCache)(nil)
