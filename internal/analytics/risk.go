package analytics

import (
	"math"
	"sort"

	"github.com/bobmcallan/strata/internal/models"
)

// RiskMetrics computes Sharpe ratio, maximum drawdown and historical
// Value-at-Risk from a price series. A pre-computed return series may be
// passed to avoid recomputation; pass nil to derive it from prices.
func RiskMetrics(prices []float64, returns []float64) (models.RiskMetricsReport, error) {
	if returns == nil {
		var err error
		returns, err = LogReturns(prices)
		if err != nil {
			return models.RiskMetricsReport{}, err
		}
	}

	meanReturn := mean(returns)
	stdReturn := sampleStdDev(returns)

	// Zero variance means no risk signal; Sharpe is defined as 0 rather
	// than dividing by zero.
	sharpe := 0.0
	if stdReturn > 0 {
		sharpe = meanReturn / stdReturn * math.Sqrt(DefaultPeriods)
	}

	return models.RiskMetricsReport{
		SharpeRatio:     sharpe,
		MaxDrawdown:     maxDrawdown(prices),
		ValueAtRisk95:   percentile(returns, 5),
		ValueAtRisk99:   percentile(returns, 1),
		MeanDailyReturn: meanReturn,
		StdDailyReturn:  stdReturn,
	}, nil
}

// maxDrawdown returns the largest peak-to-trough decline as a fraction,
// always <= 0, and exactly 0 for a non-decreasing series.
func maxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	runningMax := prices[0]
	worst := 0.0
	for _, p := range prices {
		if p > runningMax {
			runningMax = p
		}
		dd := (p - runningMax) / runningMax
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// percentile returns the q-th percentile (0-100) of xs using linear
// interpolation between order statistics.
func percentile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := q / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
