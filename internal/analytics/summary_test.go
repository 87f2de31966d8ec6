package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/strata/internal/models"
)

func seriesFromPrices(prices []float64) *models.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.EODBar, len(prices))
	for i, p := range prices {
		bars[i] = models.EODBar{
			Date:     start.AddDate(0, 0, i),
			Open:     p,
			High:     p,
			Low:      p,
			Close:    p,
			AdjClose: p,
			Volume:   1000,
		}
	}
	return &models.PriceSeries{Symbol: "^GSPC", Bars: bars}
}

func trendingSeries(n int) *models.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 4700 + float64(i)*3 + float64(i%5)*2
	}
	return seriesFromPrices(prices)
}

func TestGenerateSummary_VolatilityAndRiskAlwaysPresent(t *testing.T) {
	series := seriesFromPrices([]float64{4700, 4710, 4705, 4720, 4715, 4730})

	report, err := GenerateSummary(series, nil, nil, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}

	if report.CurrentPrice != 4730 {
		t.Errorf("current price = %v, want 4730", report.CurrentPrice)
	}
	if report.PriceSeriesLength != 6 {
		t.Errorf("series length = %v, want 6", report.PriceSeriesLength)
	}
	if report.Volatility.SampleSize != 5 {
		t.Errorf("sample size = %v, want 5", report.Volatility.SampleSize)
	}
	if report.RiskMetrics.StdDailyReturn <= 0 {
		t.Error("risk metrics block missing or degenerate")
	}
	// No terms, no dates: optional blocks are omitted, not errors.
	if report.Greeks != nil {
		t.Error("greeks block present without terms and dates")
	}
	if report.BreakevenLevels != nil {
		t.Error("breakeven block present without terms and dates")
	}
}

func TestGenerateSummary_WithTermsAndDates(t *testing.T) {
	series := trendingSeries(120)
	terms := &models.ProductTerms{
		Barrier:           pct(10),
		Cap:               pct(15),
		ParticipationRate: pct(100),
	}
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	report, err := GenerateSummary(series, terms, dates, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}

	if report.Greeks == nil {
		t.Fatal("greeks block missing")
	}
	if report.Greeks.BarrierAnalysis == nil || report.Greeks.CapAnalysis == nil {
		t.Error("barrier/cap analyses missing")
	}
	if report.BreakevenLevels == nil {
		t.Fatal("breakeven block missing")
	}
	if _, ok := report.BreakevenLevels.Levels["barrier_level"]; !ok {
		t.Error("barrier_level missing from breakeven block")
	}
}

func TestGenerateSummary_MissingDatesSuppressesOptionalBlocks(t *testing.T) {
	series := trendingSeries(120)
	terms := &models.ProductTerms{Barrier: pct(10)}

	// Terms without dates.
	report, err := GenerateSummary(series, terms, nil, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks != nil || report.BreakevenLevels != nil {
		t.Error("optional blocks present without dates")
	}

	// Dates without terms.
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	report, err = GenerateSummary(series, nil, dates, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks != nil || report.BreakevenLevels != nil {
		t.Error("optional blocks present without terms")
	}
}

func TestGenerateSummary_VolatilityPreference(t *testing.T) {
	// 120 prices: vol_60d is available, vol_252d is not. The greeks block
	// must use the 60-day figure, not the 20-day.
	series := trendingSeries(120)
	terms := &models.ProductTerms{Barrier: pct(10)}
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	report, err := GenerateSummary(series, terms, dates, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks == nil {
		t.Fatal("greeks block missing")
	}

	vol60 := report.Volatility.Windows[models.WindowKey(60)]
	if vol60 == nil {
		t.Fatal("vol_60d unavailable in fixture")
	}
	if report.Greeks.Volatility != *vol60 {
		t.Errorf("greeks volatility = %v, want vol_60d %v", report.Greeks.Volatility, *vol60)
	}
}

func TestGenerateSummary_VolatilityOverride(t *testing.T) {
	series := trendingSeries(120)
	terms := &models.ProductTerms{Barrier: pct(10)}
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	report, err := GenerateSummary(series, terms, dates, SummaryOptions{VolatilityOverride: 0.33})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks == nil || report.Greeks.Volatility != 0.33 {
		t.Errorf("override not honored: %+v", report.Greeks)
	}
}

func TestGenerateSummary_ZeroRiskFreeRate(t *testing.T) {
	series := trendingSeries(120)
	terms := &models.ProductTerms{Barrier: pct(10)}
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	rate := 0.0
	report, err := GenerateSummary(series, terms, dates, SummaryOptions{RiskFreeRate: &rate})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks == nil {
		t.Fatal("greeks block missing")
	}
	if report.Greeks.RiskFreeRate != 0 {
		t.Errorf("risk-free rate = %v, want explicit 0", report.Greeks.RiskFreeRate)
	}

	// Unset still falls back to the default.
	report, err = GenerateSummary(series, terms, dates, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks == nil || report.Greeks.RiskFreeRate != DefaultRiskFreeRate {
		t.Errorf("unset rate: got %+v, want default %v", report.Greeks, DefaultRiskFreeRate)
	}
}

func TestGenerateSummary_FlatSeriesOmitsGreeks(t *testing.T) {
	// A constant price series has exactly zero realized volatility in
	// every window; breakeven still computes, the greeks block is omitted.
	prices := make([]float64, 80)
	for i := range prices {
		prices[i] = 100
	}
	series := seriesFromPrices(prices)
	terms := &models.ProductTerms{Barrier: pct(10)}
	dates := &models.DateSet{
		PricingDate:  models.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		MaturityDate: models.NewDate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	report, err := GenerateSummary(series, terms, dates, SummaryOptions{})
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if report.Greeks != nil {
		t.Error("greeks block present despite zero volatility")
	}
	if report.BreakevenLevels == nil {
		t.Error("breakeven block missing")
	}
}

func TestGenerateSummary_InsufficientData(t *testing.T) {
	_, err := GenerateSummary(seriesFromPrices([]float64{100}), nil, nil, SummaryOptions{})
	var insufficient *InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Errorf("got %v, want InsufficientDataError", err)
	}
}
