// Package interfaces defines service contracts for Strata
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

// PriceClient fetches historical daily bars from a market data provider
type PriceClient interface {
	// GetDailyBars returns daily bars for symbol over [from, to],
	// ascending by date.
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error)
}
