package analytics

import (
	"math"

	"github.com/bobmcallan/strata/internal/models"
)

// DefaultPeriods is the annualization factor for daily observations.
const DefaultPeriods = 252

// DefaultVolatilityWindows are the rolling windows, in trading days, used
// when the caller does not supply its own.
var DefaultVolatilityWindows = []int{20, 60, 252}

// RealizedVolatility computes annualized realized volatility from a price
// series. Daily volatility is the sample standard deviation of log
// returns; annualized is daily scaled by sqrt(periods). A zero standard
// deviation (constant-ratio series) is a valid result, not an error.
func RealizedVolatility(prices []float64, periods int) (models.VolatilityStats, error) {
	if periods <= 0 {
		return models.VolatilityStats{}, &InvalidParameterError{Param: "periods", Value: float64(periods)}
	}

	returns, err := LogReturns(prices)
	if err != nil {
		return models.VolatilityStats{}, err
	}

	daily := sampleStdDev(returns)
	return models.VolatilityStats{
		Annualized:      daily * math.Sqrt(float64(periods)),
		Daily:           daily,
		SampleSize:      len(returns),
		MeanDailyReturn: mean(returns),
	}, nil
}

// RollingVolatilities computes realized volatility over the most recent
// w+1 prices for each window w. Windows longer than the available history
// map to nil so callers can tell "no signal" from a flat series.
func RollingVolatilities(prices []float64, windows []int, periods int) (map[string]*float64, error) {
	if len(windows) == 0 {
		windows = DefaultVolatilityWindows
	}

	result := make(map[string]*float64, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return nil, &InvalidParameterError{Param: "window", Value: float64(w)}
		}
		key := models.WindowKey(w)
		if len(prices) < w+1 {
			result[key] = nil
			continue
		}
		stats, err := RealizedVolatility(prices[len(prices)-w-1:], periods)
		if err != nil {
			return nil, err
		}
		vol := stats.Annualized
		result[key] = &vol
	}
	return result, nil
}
