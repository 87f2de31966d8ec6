package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

// PriceCache stores fetched price series with a TTL so repeated analyses
// of the same underlying do not re-hit the provider.
type PriceCache interface {
	// GetSeries returns a cached series for symbol over [from, to], or
	// nil when absent or expired.
	GetSeries(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error)

	// PutSeries stores a fetched series for symbol over [from, to].
	PutSeries(ctx context.Context, symbol string, from, to time.Time, series *models.PriceSeries) error

	// Purge removes expired entries and returns how many were dropped.
	Purge(ctx context.Context) (int, error)

	// Close releases the underlying store.
	Close() error
}
