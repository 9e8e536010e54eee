package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikbrunner/nt/internal/logger"
)

// DefaultRevalidateEvery is the minimum spacing of background revalidations.
const DefaultRevalidateEvery = 30 * time.Second

// FetchFunc loads fresh data from the source.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type options struct {
	log     *slog.Logger
	now     func() time.Time
	limiter *rate.Limiter
}

// Option configures a Cache.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLimiter replaces the background revalidation throttle.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

// Cache serves one keyed value from a Backend and refetches it when the
// entry is older than the TTL. Safe for concurrent use.
type Cache[T any] struct {
	key     string
	ttl     time.Duration
	backend Backend
	fetch   FetchFunc[T]
	log     *slog.Logger
	now     func() time.Time
	limiter *rate.Limiter

	mu    sync.Mutex
	value T
	has   bool

	wg sync.WaitGroup
}

// New creates a cache for key.
func New[T any](key string, ttl time.Duration, backend Backend, fetch FetchFunc[T], opts ...Option) *Cache[T] {
	o := options{
		log:     logger.L(),
		now:     time.Now,
		limiter: rate.NewLimiter(rate.Every(DefaultRevalidateEvery), 1),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		key:     key,
		ttl:     ttl,
		backend: backend,
		fetch:   fetch,
		log:     o.log.With("cache", key),
		now:     o.now,
		limiter: o.limiter,
	}
}

// Key returns the cache key.
func (c *Cache[T]) Key() string {
	return c.key
}

// TTL returns the time-to-live.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Value returns the last good value, if any.
func (c *Cache[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.has
}

// Load returns the cached value when it is fresh and revalidates it in the
// background. A missing or expired entry is fetched synchronously.
func (c *Cache[T]) Load(ctx context.Context) (T, error) {
	if v, ok := c.fresh(); ok {
		c.revalidate(ctx)
		return v, nil
	}
	return c.Refresh(ctx)
}

// fresh reads an unexpired entry from the backend.
func (c *Cache[T]) fresh() (T, bool) {
	var zero T

	e, err := c.backend.Get(c.key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn("cache read failed", "error", err)
		}
		return zero, false
	}
	if e.Expired(c.now(), c.ttl) {
		c.log.Debug("cache entry expired", "age", c.now().UnixMilli()-e.Timestamp)
		return zero, false
	}

	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		c.log.Warn("cache entry undecodable", "error", err)
		return zero, false
	}

	c.mu.Lock()
	c.value, c.has = v, true
	c.mu.Unlock()
	return v, true
}

// revalidate refreshes in the background unless throttled. Failures keep
// the last good value.
func (c *Cache[T]) revalidate(ctx context.Context) {
	if !c.limiter.Allow() {
		c.log.Debug("revalidation throttled")
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.Refresh(ctx); err != nil {
			c.log.Warn("background revalidation failed", "error", err)
		}
	}()
}

// Refresh fetches from the source and stores the result.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	v, err := c.fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.value, c.has = v, true
	c.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", "error", err)
		return v, nil
	}
	if err := c.backend.Set(c.key, Entry{Data: data, Timestamp: c.now().UnixMilli()}); err != nil {
		c.log.Warn("cache write failed", "error", err)
	}
	return v, nil
}

// Run refreshes every interval until ctx is done.
func (c *Cache[T]) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				c.log.Warn("periodic refresh failed", "error", err)
			}
		}
	}
}

// Wait blocks until background revalidations finish.
func (c *Cache[T]) Wait() {
	c.wg.Wait()
}
