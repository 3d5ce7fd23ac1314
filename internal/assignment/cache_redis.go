package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"compass/internal/assignment/metrics"
	platformredis "compass/internal/platform/redis"
	"compass/pkg/domain"
)

// CachedStore fronts a Store with a Redis cache of the latest assignment per
// (user, window). Writes are write-through; reads fall back to the inner
// store whenever Redis misses or is unavailable, so the cache can fail
// without failing requests.
type CachedStore struct {
	inner   Store
	client  *platformredis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewCachedStore(inner Store, client *platformredis.Client, ttl time.Duration, logger *slog.Logger, m *metrics.Metrics) *CachedStore {
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger, metrics: m}
}

func cacheKey(userID domain.UserID, window domain.TimeWindow) string {
	return fmt.Sprintf("compass:assignment:latest:%s:%s", userID, window)
}

func (s *CachedStore) Save(ctx context.Context, a Assignment) error {
	if err := s.inner.Save(ctx, a); err != nil {
		return err
	}

	payload, err := json.Marshal(a)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping assignment cache write", "error", err)
		return nil
	}
	if err := s.client.Set(ctx, cacheKey(a.UserID, a.TimeWindow), payload, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "assignment cache write failed",
			"user_id", a.UserID,
			"time_window", a.TimeWindow,
			"error", err,
		)
	}
	return nil
}

func (s *CachedStore) FindLatest(ctx context.Context, userID domain.UserID, window domain.TimeWindow) (Assignment, error) {
	payload, err := s.client.Get(ctx, cacheKey(userID, window)).Bytes()
	if err == nil {
		var a Assignment
		if err := json.Unmarshal(payload, &a); err == nil {
			s.metrics.RecordCacheHit()
			return a, nil
		}
		s.logger.WarnContext(ctx, "corrupt assignment cache entry, falling back to store",
			"user_id", userID,
			"time_window", window,
		)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "assignment cache read failed, falling back to store",
			"user_id", userID,
			"time_window", window,
			"error", err,
		)
	}
	s.metrics.RecordCacheMiss()

	a, err := s.inner.FindLatest(ctx, userID, window)
	if err != nil {
		return Assignment{}, err
	}

	if payload, err := json.Marshal(a); err == nil {
		if err := s.client.Set(ctx, cacheKey(userID, window), payload, s.ttl).Err(); err != nil {
			s.logger.DebugContext(ctx, "assignment cache backfill failed", "error", err)
		}
	}
	return a, nil
}
