package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

// yearBasis is the day-count convention for time to maturity.
const yearBasis = 365.25

// TimeToMaturity returns the year fraction between pricing and maturity,
// clamped to zero for expired contracts.
func TimeToMaturity(pricingDate, maturityDate time.Time) float64 {
	days := maturityDate.Sub(pricingDate).Hours() / 24
	return math.Max(0, days/yearBasis)
}

// ProductGreeks decomposes a structured note into approximate vanilla
// option legs and computes its sensitivities: an at-the-money call leg as
// the reference point, a short put struck at the barrier level when a
// barrier term is present, and a short call struck at the cap level when
// a cap term is present.
//
// This is a deliberate approximation. True barrier and knock-in features
// are path dependent and need simulation for exact magnitudes; the single
// vanilla leg gives directionally correct, magnitude-approximate Greeks.
func ProductGreeks(terms *models.ProductTerms, spot float64, pricingDate, maturityDate time.Time, volatility, riskFreeRate float64) (*models.GreeksReport, error) {
	if spot <= 0 {
		return nil, &InvalidParameterError{Param: "spot", Value: spot}
	}
	if volatility <= 0 {
		return nil, &InvalidParameterError{Param: "volatility", Value: volatility}
	}

	T := TimeToMaturity(pricingDate, maturityDate)

	report := &models.GreeksReport{
		TimeToMaturityYears: T,
		TimeToMaturityDays:  math.Round(T * yearBasis),
		SpotPrice:           spot,
		Volatility:          volatility,
		RiskFreeRate:        riskFreeRate,
	}

	atm, err := BSGreeks(spot, spot, T, riskFreeRate, volatility, Call)
	if err != nil {
		return nil, fmt.Errorf("atm greeks: %w", err)
	}
	report.ATMGreeks = atm

	// Participation scales delta linearly; other Greeks are reported raw.
	report.EffectiveDelta = atm.Delta
	if terms != nil && terms.ParticipationRate != nil {
		report.EffectiveDelta = atm.Delta * terms.ParticipationRate.Value / 100
	}

	if terms != nil && terms.Barrier != nil {
		barrierLevel := spot * (1 - terms.Barrier.Value/100)
		if barrierLevel > 0 {
			legGreeks, err := BSGreeks(spot, barrierLevel, T, riskFreeRate, volatility, Put)
			if err != nil {
				return nil, fmt.Errorf("barrier leg greeks: %w", err)
			}
			report.BarrierAnalysis = &models.BarrierAnalysis{
				BarrierLevel:      barrierLevel,
				BarrierPercentage: terms.Barrier.Value,
				DistanceToBarrier: (spot - barrierLevel) / barrierLevel * 100,
				Greeks:            legGreeks,
			}
		}
	}

	if terms != nil && terms.Cap != nil {
		capLevel := spot * (1 + terms.Cap.Value/100)
		legGreeks, err := BSGreeks(spot, capLevel, T, riskFreeRate, volatility, Call)
		if err != nil {
			return nil, fmt.Errorf("cap leg greeks: %w", err)
		}
		report.CapAnalysis = &models.CapAnalysis{
			CapLevel:      capLevel,
			CapPercentage: terms.Cap.Value,
			DistanceToCap: (capLevel - spot) / capLevel * 100,
			Greeks:        legGreeks,
		}
	}

	return report, nil
}
