package http

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a report payload when the cache cannot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	fetchTimeout = 15 * time.Second
	setTimeout   = 5 * time.Second
)

// jittered spreads expirations by up to ±15s so the dashboard keys for one
// academic year don't all fall due at once.
func jittered(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Intn(30)-15)*time.Second
}

// FindAndCache is the read path for the JSON report endpoints: serve from
// cache when possible, collapse concurrent misses through singleflight, and
// refresh served entries in the background so a hot dashboard never waits on
// the aggregation queries. File downloads bypass it entirely.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}

	var cached T
	switch err := c.Get(ctx, key, &cached); {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		refreshAhead(c, sf, key, ttl, logger, fn)
		return cached, nil
	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))
	default:
		// A flaky cache must not take the reports down with it.
		logger.Warn("cache get error, treating as miss", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		storeAsync(c, key, ttl, logger, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	return value, nil
}

// storeAsync writes a freshly aggregated payload back without holding up the
// response.
func storeAsync[T any](c Cacher, key string, ttl time.Duration, logger *zap.Logger, value T) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), setTimeout)
		defer cancel()

		if err := c.Set(ctx, key, value, jittered(ttl)); err != nil {
			logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// refreshAhead re-runs the aggregation after a hit so the entry stays warm.
// The random delay and the singleflight key keep a burst of hits from
// fanning out into a burst of database queries.
func refreshAhead[T any](
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) {
	go func() {
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)

		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}

			setCtx, cancelSet := context.WithTimeout(context.Background(), setTimeout)
			defer cancelSet()

			if err := c.Set(setCtx, key, value, jittered(ttl)); err != nil {
				logger.Warn("background cache set failed", zap.String("key", key), zap.Error(err))
			}
			return value, nil
		})
	}()
}
