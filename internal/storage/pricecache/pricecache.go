// Package pricecache provides BadgerDB-backed price series caching
package pricecache

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// cacheEntry is the stored record. Key is symbol plus date range so
// different lookbacks of the same symbol cache independently.
type cacheEntry struct {
	Key      string
	Symbol   string
	From     time.Time
	To       time.Time
	Series   *models.PriceSeries
	CachedAt time.Time
}

// Cache implements the PriceCache interface on badgerhold
type Cache struct {
	store  *badgerhold.Store
	ttl    time.Duration
	logger *common.Logger
}

// New opens a price cache at path with the given entry TTL
func New(path string, ttl time.Duration, logger *common.Logger) (*Cache, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open price cache: %w", err)
	}

	logger.Debug().Str("path", path).Dur("ttl", ttl).Msg("Price cache opened")

	return &Cache{store: store, ttl: ttl, logger: logger}, nil
}

func cacheKey(symbol string, from, to time.Time) string {
	return fmt.Sprintf("%s:%s:%s", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// GetSeries returns the cached series for symbol over [from, to], or nil
// when absent or past its TTL. Expired entries are deleted on read.
func (c *Cache) GetSeries(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	key := cacheKey(symbol, from, to)

	var entry cacheEntry
	err := c.store.Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price cache: %w", err)
	}

	if time.Since(entry.CachedAt) > c.ttl {
		if err := c.store.Delete(key, cacheEntry{}); err != nil {
			c.logger.Warn().Str("key", key).Err(err).Msg("Failed to evict expired entry")
		}
		return nil, nil
	}

	c.logger.Debug().Str("symbol", symbol).Str("key", key).Msg("Price cache hit")
	return entry.Series, nil
}

// PutSeries stores a fetched series for symbol over [from, to].
func (c *Cache) PutSeries(ctx context.Context, symbol string, from, to time.Time, series *models.PriceSeries) error {
	if series == nil {
		return fmt.Errorf("cannot cache nil series")
	}

	key := cacheKey(symbol, from, to)
	entry := cacheEntry{
		Key:      key,
		Symbol:   symbol,
		From:     from,
		To:       to,
		Series:   series,
		CachedAt: time.Now(),
	}

	if err := c.store.Upsert(key, entry); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Int("bars", series.Len()).Msg("Price series cached")
	return nil
}

// Purge removes all expired entries and returns how many were dropped.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-c.ttl)

	var expired []cacheEntry
	if err := c.store.Find(&expired, badgerhold.Where("CachedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to scan price cache: %w", err)
	}

	for _, entry := range expired {
		if err := c.store.Delete(entry.Key, cacheEntry{}); err != nil {
			return 0, fmt.Errorf("failed to evict entry %s: %w", entry.Key, err)
		}
	}

	if len(expired) > 0 {
		c.logger.Info().Int("evicted", len(expired)).Msg("Price cache purged")
	}
	return len(expired), nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

var _ interfaces.PriceCache = (*Cache)(nil)
