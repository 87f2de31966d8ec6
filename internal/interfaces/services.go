package interfaces

import (
	"context"

	"github.com/bobmcallan/strata/internal/models"
)

// EvaluateOptions configures one analytics evaluation.
type EvaluateOptions struct {
	RiskFreeRate       *float64 `json:"risk_free_rate,omitempty"`      // nil uses the configured default; an explicit 0 is honored
	VolatilityWindows  []int    `json:"volatility_windows,omitempty"`  // nil uses the configured default
	VolatilityOverride float64  `json:"volatility_override,omitempty"` // explicit sigma for the Greeks block
	LookbackDays       int      `json:"lookback_days,omitempty"`       // history to fetch when no series supplied
}

// EvaluateRequest carries the inputs for one structured-note evaluation.
// Either Symbol (prices are fetched) or Series (caller-supplied) must be
// set. Terms may be given directly or extracted from TermsText.
type EvaluateRequest struct {
	Symbol    string               `json:"symbol,omitempty"`
	Series    *models.PriceSeries  `json:"series,omitempty"`
	Terms     *models.ProductTerms `json:"terms,omitempty"`
	TermsText string               `json:"terms_text,omitempty"`
	Dates     *models.DateSet      `json:"dates,omitempty"`
	Options   EvaluateOptions      `json:"options"`
}

// AnalysisService evaluates structured notes against price history
type AnalysisService interface {
	// Evaluate runs the full analytics pipeline for one request.
	Evaluate(ctx context.Context, req EvaluateRequest) (*models.AnalyticsReport, error)

	// RenderChart renders a price/drawdown PNG for a previously fetched
	// series. Returns raw PNG bytes.
	RenderChart(ctx context.Context, series *models.PriceSeries) ([]byte, error)
}
