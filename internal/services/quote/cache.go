package quote

import (
	"context"
	"fmt"
	"time"

	domain "stockai/internal/domain/quote"
	"stockai/internal/metrics"
	"stockai/pkg/errors"
	"stockai/pkg/logger"
)

// Store is the persistence surface the cache needs. Satisfied by the
// Redis adapter; tests use an in-memory fake.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheType selects the TTL class for a cached value.
type CacheType string

const (
	CacheRealtime  CacheType = "realtime"
	CacheDaily     CacheType = "daily"
	CacheHistory   CacheType = "history"
	CacheIndicator CacheType = "indicator"
)

// TTL per cache type. Realtime quotes go stale in seconds; indicator
// results are expensive and stable enough to hold for minutes.
var cacheTTLs = map[CacheType]time.Duration{
	CacheRealtime:  10 * time.Second,
	CacheDaily:     300 * time.Second,
	CacheHistory:   3600 * time.Second,
	CacheIndicator: 600 * time.Second,
}

// Cache is a TTL cache for price data keyed by type and symbol.
type Cache struct {
	store Store
	log   *logger.Logger
}

// NewCache creates a quote cache over the given store.
func NewCache(store Store) *Cache {
	return &Cache{
		store: store,
		log:   logger.Get().With("component", "quote_cache"),
	}
}

// Key builds the cache key for a type/symbol pair.
func Key(t CacheType, symbol string) string {
	return fmt.Sprintf("stockai:price:%s:%s", t, symbol)
}

// TTLFor returns the TTL for a cache type.
func TTLFor(t CacheType) time.Duration {
	if ttl, ok := cacheTTLs[t]; ok {
		return ttl
	}
	return cacheTTLs[CacheDaily]
}

// GetQuote fetches a cached realtime quote. ErrNotFound on miss.
func (c *Cache) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var q domain.Quote
	err := c.get(ctx, CacheRealtime, symbol, &q)
	return q, err
}

// SetQuote caches a realtime quote.
func (c *Cache) SetQuote(ctx context.Context, q domain.Quote) error {
	return c.set(ctx, CacheRealtime, q.Symbol, q)
}

// GetHistory fetches a cached candle series. ErrNotFound on miss.
func (c *Cache) GetHistory(ctx context.Context, symbol, period string) (domain.History, error) {
	var h domain.History
	err := c.get(ctx, CacheHistory, symbol+":"+period, &h)
	return h, err
}

// SetHistory caches a candle series.
func (c *Cache) SetHistory(ctx context.Context, h domain.History) error {
	return c.set(ctx, CacheHistory, h.Symbol+":"+h.Period, h)
}

// GetIndicator fetches a cached indicator result into dest.
func (c *Cache) GetIndicator(ctx context.Context, symbol string, dest interface{}) error {
	return c.get(ctx, CacheIndicator, symbol, dest)
}

// SetIndicator caches an indicator result.
func (c *Cache) SetIndicator(ctx context.Context, symbol string, value interface{}) error {
	return c.set(ctx, CacheIndicator, symbol, value)
}

// Invalidate drops all cache classes for a symbol.
func (c *Cache) Invalidate(ctx context.Context, symbol string) error {
	keys := []string{
		Key(CacheRealtime, symbol),
		Key(CacheDaily, symbol),
		Key(CacheIndicator, symbol),
	}
	return c.store.Delete(ctx, keys...)
}

func (c *Cache) get(ctx context.Context, t CacheType, symbol string, dest interface{}) error {
	err := c.store.Get(ctx, Key(t, symbol), dest)
	switch {
	case err == nil:
		metrics.CacheOperations.WithLabelValues(string(t), "hit").Inc()
	case errors.Is(err, errors.ErrNotFound):
		metrics.CacheOperations.WithLabelValues(string(t), "miss").Inc()
	default:
		metrics.CacheOperations.WithLabelValues(string(t), "error").Inc()
		c.log.Warnf("Cache read failed for %s: %v", symbol, err)
	}
	return err
}

func (c *Cache) set(ctx context.Context, t CacheType, symbol string, value interface{}) error {
	if err := c.store.Set(ctx, Key(t, symbol), value, TTLFor(t)); err != nil {
		c.log.Warnf("Cache write failed for %s: %v", symbol, err)
		return err
	}
	return nil
}
