package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/strata/internal/app"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/models"
	"github.com/bobmcallan/strata/internal/services/analysis"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	logger := common.NewSilentLogger()

	a := &app.App{
		Config:          config,
		Logger:          logger,
		AnalysisService: analysis.NewService(nil, nil, config, logger),
		StartupTime:     time.Now(),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func testSeries(n int) *models.PriceSeries {
	bars := make([]models.EODBar, n)
	price := 100.0
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		if i%4 == 3 {
			price *= 0.992
		} else {
			price *= 1.005
		}
		bars[i] = models.EODBar{Date: start.AddDate(0, 0, i), Close: price, AdjClose: price}
	}
	return &models.PriceSeries{Symbol: "SPY", Bars: bars}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp["version"])
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"series":     testSeries(80),
		"terms_text": "participation rate of 150% with a barrier at 70% of the initial level",
		// Dates arrive as plain ISO-8601 dates, the way term sheets quote them.
		"dates": map[string]string{
			"pricing_date":  "2024-01-15",
			"maturity_date": "2026-01-15",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	rec := httptest.NewRecorder()
	srv.handleAnalyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.AnalyticsReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "SPY", report.Symbol)
	assert.Equal(t, 80, report.PriceSeriesLength)
	require.NotNil(t, report.Greeks)
	assert.InDelta(t, 2.0, report.Greeks.TimeToMaturityYears, 0.01)
	assert.NotNil(t, report.BreakevenLevels)
	assert.Contains(t, report.BreakevenLevels.Levels, "barrier_level")
}

func TestHandleAnalyze_VolatilityOnly(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"series": testSeries(30)})
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	rec := httptest.NewRecorder()
	srv.handleAnalyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.AnalyticsReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))

	assert.Nil(t, report.Greeks)
	assert.Nil(t, report.BreakevenLevels)
	assert.Positive(t, report.Volatility.RealizedVolAnnualized)
}

func TestHandleAnalyze_EmptyRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	srv.handleAnalyze(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	srv.handleAnalyze(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleChart(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"series": testSeries(60)})
	req := httptest.NewRequest(http.MethodPost, "/api/chart", body)
	rec := httptest.NewRecorder()
	srv.handleChart(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestHandleChart_MissingSeries(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chart", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	srv.handleChart(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTermsExtract(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"text": "CUSIP: 037833100. Participation rate of 150% capped at 25% with a buffer of 10%.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/terms/extract", body)
	rec := httptest.NewRecorder()
	srv.handleTermsExtract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Terms      *models.ProductTerms `json:"terms"`
		PayoffType string               `json:"payoff_type"`
		IDs        struct {
			CUSIP string `json:"cusip"`
		} `json:"identifiers"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.NotNil(t, resp.Terms.ParticipationRate)
	assert.Equal(t, 150.0, resp.Terms.ParticipationRate.Value)
	assert.Equal(t, "buffered_participation", resp.PayoffType)
	assert.Equal(t, "037833100", resp.IDs.CUSIP)
}

func TestHandleTermsExtract_HTML(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"text":    "<html><body><p>barrier at 70% of the initial level</p></body></html>",
		"is_html": true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/terms/extract", body)
	rec := httptest.NewRecorder()
	srv.handleTermsExtract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Terms *models.ProductTerms `json:"terms"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Terms.Barrier)
	assert.Equal(t, 70.0, resp.Terms.Barrier.Value)
}

func TestHandleTermsExtract_MissingText(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/terms/extract", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	srv.handleTermsExtract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleIdentifiersValidate(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]string{"cusip": "037833100", "isin": "US0378331005"})
	req := httptest.NewRequest(http.MethodPost, "/api/identifiers/validate", body)
	rec := httptest.NewRecorder()
	srv.handleIdentifiersValidate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["cusip_valid"])
	assert.Equal(t, true, resp["isin_valid"])
	assert.Equal(t, "US0378331005", resp["isin_from_cusip"])
}

func TestHandleIdentifiersValidate_Empty(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/identifiers/validate", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	srv.handleIdentifiersValidate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCalendar(t *testing.T) {
	srv := newTestServer(t)

	// Independence Day 2024 falls on a Thursday.
	body := jsonBody(t, map[string]interface{}{
		"date":            "2024-07-04",
		"market":          "NYSE",
		"convention":      "following",
		"settlement_days": 2,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/calendar", body)
	rec := httptest.NewRecorder()
	srv.handleCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, false, resp["is_trading_day"])
	assert.Equal(t, "NYSE", resp["market"])
	assert.Equal(t, "2024-07-05", resp["next_trading_day"])
	assert.Equal(t, "2024-07-03", resp["previous_trading_day"])
	assert.Equal(t, "2024-07-05", resp["adjusted_date"])
	assert.Equal(t, "2024-07-08", resp["settlement_date"])
}

func TestHandleCalendar_InferredMarket(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"date":   "2024-07-16",
		"symbol": "0700.HK",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/calendar", body)
	rec := httptest.NewRecorder()
	srv.handleCalendar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "HKEX", resp["market"])
	assert.Equal(t, true, resp["is_trading_day"])
}

func TestHandleCalendar_MissingDate(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calendar", jsonBody(t, map[string]string{}))
	rec := httptest.NewRecorder()
	srv.handleCalendar(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleShutdown_Production(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Environment = "production"

	req := httptest.NewRequest(http.MethodPost, "/api/shutdown", nil)
	rec := httptest.NewRecorder()
	srv.handleShutdown(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
