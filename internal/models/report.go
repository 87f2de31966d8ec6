package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Greeks holds the five Black-Scholes sensitivities. Theta is per calendar
// day; vega and rho are per one-percentage-point move.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// VolatilityStats holds single-window realized volatility figures.
type VolatilityStats struct {
	Annualized      float64 `json:"realized_vol_annualized"`
	Daily           float64 `json:"realized_vol_daily"`
	SampleSize      int     `json:"sample_size"`
	MeanDailyReturn float64 `json:"mean_daily_return"`
}

// VolatilityReport is the volatility block of an analytics report.
// Windows is keyed "vol_<w>d"; a nil value means the window exceeds the
// available history (no signal, as opposed to a flat series reporting 0).
type VolatilityReport struct {
	Windows               map[string]*float64 `json:"-"`
	RealizedVolAnnualized float64             `json:"realized_vol_annualized"`
	SampleSize            int                 `json:"sample_size"`
}

// MarshalJSON flattens the window map into the block alongside the
// full-series figures, matching the report wire contract.
func (v VolatilityReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(v.Windows)+2)
	for key, vol := range v.Windows {
		out[key] = vol
	}
	out["realized_vol_annualized"] = v.RealizedVolAnnualized
	out["sample_size"] = v.SampleSize
	return json.Marshal(out)
}

// WindowKey returns the report key for a rolling window size.
func WindowKey(window int) string {
	return fmt.Sprintf("vol_%dd", window)
}

// RiskMetricsReport is the risk block of an analytics report. VaR figures
// are daily log returns, typically negative.
type RiskMetricsReport struct {
	SharpeRatio     float64 `json:"sharpe_ratio"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	ValueAtRisk95   float64 `json:"value_at_risk_95"`
	ValueAtRisk99   float64 `json:"value_at_risk_99"`
	MeanDailyReturn float64 `json:"mean_daily_return"`
	StdDailyReturn  float64 `json:"std_daily_return"`
}

// BarrierAnalysis approximates the downside exposure below the barrier as
// a short put struck at the barrier level.
type BarrierAnalysis struct {
	BarrierLevel      float64 `json:"barrier_level"`
	BarrierPercentage float64 `json:"barrier_percentage"`
	DistanceToBarrier float64 `json:"distance_to_barrier"`
	Greeks            Greeks  `json:"barrier_greeks"`
}

// CapAnalysis approximates the capped upside as a short call struck at the
// cap level.
type CapAnalysis struct {
	CapLevel      float64 `json:"cap_level"`
	CapPercentage float64 `json:"cap_percentage"`
	DistanceToCap float64 `json:"distance_to_cap"`
	Greeks        Greeks  `json:"cap_greeks"`
}

// GreeksReport is the product sensitivity block of an analytics report.
type GreeksReport struct {
	TimeToMaturityYears float64          `json:"time_to_maturity_years"`
	TimeToMaturityDays  float64          `json:"time_to_maturity_days"`
	SpotPrice           float64          `json:"spot_price"`
	Volatility          float64          `json:"volatility"`
	RiskFreeRate        float64          `json:"risk_free_rate"`
	ATMGreeks           Greeks           `json:"atm_greeks"`
	EffectiveDelta      float64          `json:"effective_delta"`
	BarrierAnalysis     *BarrierAnalysis `json:"barrier_analysis,omitempty"`
	CapAnalysis         *CapAnalysis     `json:"cap_analysis,omitempty"`
}

// BreakevenLevel is one critical price level derived from a product term.
type BreakevenLevel struct {
	Price       float64 `json:"price"`
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description"`
}

// BreakevenReport maps level names (buffer_level, barrier_level,
// knock_in_level, cap_level, participation_breakeven) to absolute prices.
type BreakevenReport struct {
	SpotPrice float64                   `json:"spot_price"`
	Levels    map[string]BreakevenLevel `json:"levels"`
}

// AnalyticsReport is the aggregate output of one analytics run. The Greeks
// and breakeven blocks are present only when product terms and a valid
// pricing/maturity date pair were supplied.
type AnalyticsReport struct {
	ID                string            `json:"id"`
	Symbol            string            `json:"symbol,omitempty"`
	GeneratedAt       time.Time         `json:"generated_at"`
	CurrentPrice      float64           `json:"current_price"`
	PriceSeriesLength int               `json:"price_series_length"`
	Volatility        VolatilityReport  `json:"volatility"`
	RiskMetrics       RiskMetricsReport `json:"risk_metrics"`
	Greeks            *GreeksReport     `json:"greeks,omitempty"`
	BreakevenLevels   *BreakevenReport  `json:"breakeven_levels,omitempty"`
}
