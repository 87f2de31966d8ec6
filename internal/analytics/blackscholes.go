package analytics

import (
	"math"

	"github.com/bobmcallan/strata/internal/models"
)

// OptionType selects the payoff side for Black-Scholes calculations.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// normPDF is the standard normal probability density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// normCDF is the standard normal cumulative distribution, via the error
// function for numerical stability.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// d1d2 returns the Black-Scholes d1 and d2 terms. Caller guarantees
// S, K, sigma > 0 and T > 0.
func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return d1, d1 - sigma*math.Sqrt(T)
}

// CallPrice returns the Black-Scholes price of a European call. At or past
// expiry, or with zero volatility, the intrinsic value is returned.
func CallPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return math.Max(S-K, 0)
	}
	d1, d2 := d1d2(S, K, T, r, sigma)
	return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
}

// PutPrice returns the Black-Scholes price of a European put. At or past
// expiry, or with zero volatility, the intrinsic value is returned.
func PutPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return math.Max(K-S, 0)
	}
	d1, d2 := d1d2(S, K, T, r, sigma)
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// BSGreeks computes the five Black-Scholes sensitivities for a European
// option. Theta is converted to a per-calendar-day figure; vega and rho
// are scaled to a one-percentage-point move.
//
// At T = 0 the formula degenerates, so the intrinsic-value limit is
// returned instead: delta in {0, 1} (call) or {-1, 0} (put) by moneyness,
// all other Greeks 0.
func BSGreeks(S, K, T, r, sigma float64, optType OptionType) (models.Greeks, error) {
	if S <= 0 {
		return models.Greeks{}, &InvalidParameterError{Param: "spot", Value: S}
	}
	if K <= 0 {
		return models.Greeks{}, &InvalidParameterError{Param: "strike", Value: K}
	}

	if T <= 0 {
		return expiryGreeks(S, K, optType), nil
	}

	if sigma <= 0 {
		return models.Greeks{}, &InvalidParameterError{Param: "sigma", Value: sigma}
	}

	d1, d2 := d1d2(S, K, T, r, sigma)
	pdfD1 := normPDF(d1)
	sqrtT := math.Sqrt(T)
	discount := math.Exp(-r * T)

	var g models.Greeks
	g.Gamma = pdfD1 / (S * sigma * sqrtT)
	g.Vega = S * pdfD1 * sqrtT / 100

	decay := -(S * pdfD1 * sigma) / (2 * sqrtT)
	if optType == Put {
		g.Delta = normCDF(d1) - 1
		g.Theta = (decay + r*K*discount*normCDF(-d2)) / 365
		g.Rho = -K * T * discount * normCDF(-d2) / 100
	} else {
		g.Delta = normCDF(d1)
		g.Theta = (decay - r*K*discount*normCDF(d2)) / 365
		g.Rho = K * T * discount * normCDF(d2) / 100
	}

	return g, nil
}

// expiryGreeks is the intrinsic-value limit of the Greeks at expiration.
func expiryGreeks(S, K float64, optType OptionType) models.Greeks {
	var delta float64
	if optType == Put {
		if S < K {
			delta = -1
		}
	} else {
		if S > K {
			delta = 1
		}
	}
	return models.Greeks{Delta: delta}
}
