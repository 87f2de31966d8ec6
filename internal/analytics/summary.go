package analytics

import (
	"fmt"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

// DefaultRiskFreeRate is the annualized rate used when the caller does not
// configure one.
const DefaultRiskFreeRate = 0.05

// greeksVolPreference orders the rolling windows used to source volatility
// for the Greeks block: longer windows are more stable than the 20-day.
var greeksVolPreference = []int{60, 252, 20}

// SummaryOptions configures one analytics run. Defaults are applied to
// unset values; there is no module-level mutable configuration.
type SummaryOptions struct {
	RiskFreeRate       *float64 // nil means DefaultRiskFreeRate; an explicit 0 is honored
	VolatilityWindows  []int
	Periods            int
	VolatilityOverride float64 // explicit volatility for the Greeks block; 0 derives it from history
}

func (o SummaryOptions) withDefaults() SummaryOptions {
	if o.RiskFreeRate == nil {
		rate := DefaultRiskFreeRate
		o.RiskFreeRate = &rate
	}
	if len(o.VolatilityWindows) == 0 {
		o.VolatilityWindows = DefaultVolatilityWindows
	}
	if o.Periods == 0 {
		o.Periods = DefaultPeriods
	}
	return o
}

// GenerateSummary assembles the full analytics report for one price
// series. Volatility and risk metrics are always present; the Greeks and
// breakeven blocks are computed only when product terms and a
// pricing/maturity date pair are both supplied — absence of either is not
// an error, those sections are simply omitted.
func GenerateSummary(series *models.PriceSeries, terms *models.ProductTerms, dates *models.DateSet, opts SummaryOptions) (*models.AnalyticsReport, error) {
	opts = opts.withDefaults()

	if series == nil || series.Len() < 2 {
		got := 0
		if series != nil {
			got = series.Len()
		}
		return nil, &InsufficientDataError{What: "analytics summary", Needed: 2, Got: got}
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("price series: %w", err)
	}

	prices := series.AdjustedCloses()
	spot := prices[len(prices)-1]

	windows, err := RollingVolatilities(prices, opts.VolatilityWindows, opts.Periods)
	if err != nil {
		return nil, fmt.Errorf("rolling volatilities: %w", err)
	}
	fullVol, err := RealizedVolatility(prices, opts.Periods)
	if err != nil {
		return nil, fmt.Errorf("realized volatility: %w", err)
	}

	riskMetrics, err := RiskMetrics(prices, nil)
	if err != nil {
		return nil, fmt.Errorf("risk metrics: %w", err)
	}

	report := &models.AnalyticsReport{
		Symbol:            series.Symbol,
		GeneratedAt:       time.Now(),
		CurrentPrice:      spot,
		PriceSeriesLength: len(prices),
		Volatility: models.VolatilityReport{
			Windows:               windows,
			RealizedVolAnnualized: fullVol.Annualized,
			SampleSize:            fullVol.SampleSize,
		},
		RiskMetrics: riskMetrics,
	}

	if terms.IsEmpty() || !dates.HasMaturityPair() {
		return report, nil
	}

	breakeven, err := BreakevenLevels(terms, spot)
	if err != nil {
		return nil, fmt.Errorf("breakeven levels: %w", err)
	}
	report.BreakevenLevels = breakeven

	volatility := opts.VolatilityOverride
	if volatility <= 0 {
		volatility = selectGreeksVolatility(windows, fullVol.Annualized)
	}
	if volatility <= 0 {
		// Flat history gives no volatility signal; the Greeks block is
		// omitted rather than evaluated at sigma = 0.
		return report, nil
	}

	greeks, err := ProductGreeks(terms, spot, dates.PricingDate.Time, dates.MaturityDate.Time, volatility, *opts.RiskFreeRate)
	if err != nil {
		return nil, fmt.Errorf("product greeks: %w", err)
	}
	report.Greeks = greeks

	return report, nil
}

// selectGreeksVolatility picks the realized volatility for the Greeks
// block from the preferred windows, falling back to the full-series figure.
func selectGreeksVolatility(windows map[string]*float64, fullSeries float64) float64 {
	for _, w := range greeksVolPreference {
		if vol, ok := windows[models.WindowKey(w)]; ok && vol != nil && *vol > 0 {
			return *vol
		}
	}
	return fullSeries
}
