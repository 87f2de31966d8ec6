// Package analysis orchestrates price retrieval and note evaluation
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/strata/internal/analytics"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
	"github.com/bobmcallan/strata/internal/terms"
)

// DefaultLookbackDays is the history fetched when the request does not
// set one. A year of daily bars covers the longest default window.
const DefaultLookbackDays = 365

// Service implements the AnalysisService interface
type Service struct {
	client    interfaces.PriceClient
	cache     interfaces.PriceCache
	extractor *terms.Extractor
	config    *common.Config
	logger    *common.Logger
}

// NewService creates a new analysis service. The cache may be nil, in
// which case every evaluation fetches fresh prices.
func NewService(client interfaces.PriceClient, cache interfaces.PriceCache, config *common.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client:    client,
		cache:     cache,
		extractor: terms.NewExtractor(logger),
		config:    config,
		logger:    logger,
	}
}

// Evaluate runs the full analytics pipeline for one request.
func (s *Service) Evaluate(ctx context.Context, req interfaces.EvaluateRequest) (*models.AnalyticsReport, error) {
	series, err := s.resolveSeries(ctx, req)
	if err != nil {
		return nil, err
	}

	productTerms := req.Terms
	if productTerms == nil && req.TermsText != "" {
		productTerms = s.extractor.ExtractTerms(req.TermsText)
	}

	opts := s.summaryOptions(req.Options)

	report, err := analytics.GenerateSummary(series, productTerms, req.Dates, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed for %s: %w", series.Symbol, err)
	}
	report.ID = uuid.New().String()

	s.logger.Info().
		Str("symbol", series.Symbol).
		Str("report_id", report.ID).
		Int("bars", series.Len()).
		Bool("greeks", report.Greeks != nil).
		Msg("Evaluation complete")

	return report, nil
}

// resolveSeries returns the caller-supplied series or fetches one by
// symbol, consulting the cache first.
func (s *Service) resolveSeries(ctx context.Context, req interfaces.EvaluateRequest) (*models.PriceSeries, error) {
	if req.Series != nil {
		if req.Series.Symbol == "" {
			req.Series.Symbol = req.Symbol
		}
		return req.Series, nil
	}
	if req.Symbol == "" {
		return nil, fmt.Errorf("either symbol or series is required")
	}
	if s.client == nil {
		return nil, fmt.Errorf("no price client configured")
	}

	lookback := req.Options.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -lookback)

	if s.cache != nil {
		cached, err := s.cache.GetSeries(ctx, req.Symbol, from, to)
		if err != nil {
			s.logger.Warn().Str("symbol", req.Symbol).Err(err).Msg("Price cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	series, err := s.client.GetDailyBars(ctx, req.Symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", req.Symbol, err)
	}

	if s.cache != nil {
		if err := s.cache.PutSeries(ctx, req.Symbol, from, to, series); err != nil {
			s.logger.Warn().Str("symbol", req.Symbol).Err(err).Msg("Price cache write failed")
		}
	}

	return series, nil
}

// summaryOptions merges request options over the configured defaults.
func (s *Service) summaryOptions(opts interfaces.EvaluateOptions) analytics.SummaryOptions {
	out := analytics.SummaryOptions{
		RiskFreeRate:       opts.RiskFreeRate,
		VolatilityWindows:  opts.VolatilityWindows,
		VolatilityOverride: opts.VolatilityOverride,
	}

	if s.config != nil {
		if out.RiskFreeRate == nil {
			rate := s.config.Analytics.RiskFreeRate
			out.RiskFreeRate = &rate
		}
		if len(out.VolatilityWindows) == 0 {
			out.VolatilityWindows = s.config.Analytics.VolatilityWindows
		}
		out.Periods = s.config.Analytics.Periods
	}

	return out
}

var _ interfaces.AnalysisService = (*Service)(nil)
