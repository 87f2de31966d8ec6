package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/strata/internal/calendar"
	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/identifiers"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
	"github.com/bobmcallan/strata/internal/terms"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Analytics
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/chart", s.handleChart)

	// Documents
	mux.HandleFunc("/api/terms/extract", s.handleTermsExtract)
	mux.HandleFunc("/api/identifiers/validate", s.handleIdentifiersValidate)

	// Calendar
	mux.HandleFunc("/api/calendar", s.handleCalendar)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- Analytics handlers ---

// handleAnalyze handles POST /api/analyze. The body is an evaluate
// request: a symbol to fetch or an inline price series, optional product
// terms (typed or as raw text) and a date set.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.EvaluateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	report, err := s.app.AnalysisService.Evaluate(r.Context(), req)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// handleChart handles POST /api/chart. The body carries an inline price
// series; the response is the rendered PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Series *models.PriceSeries `json:"series"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Series == nil {
		WriteError(w, http.StatusBadRequest, "series is required")
		return
	}

	png, err := s.app.AnalysisService.RenderChart(r.Context(), req.Series)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Document handlers ---

// handleTermsExtract handles POST /api/terms/extract.
func (s *Server) handleTermsExtract(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Text   string `json:"text"`
		IsHTML bool   `json:"is_html"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "text is required")
		return
	}

	extractor := terms.NewExtractor(s.logger)
	var extracted *models.ProductTerms
	if req.IsHTML {
		extracted = extractor.ExtractTermsHTML(req.Text)
	} else {
		extracted = extractor.ExtractTerms(req.Text)
	}

	text := req.Text
	if req.IsHTML {
		text = terms.StripHTML(req.Text)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"terms":       extracted,
		"payoff_type": terms.PayoffType(extracted),
		"identifiers": identifiers.ExtractAll(text),
	})
}

// handleCalendar handles POST /api/calendar. It classifies a date
// against a market's trading calendar and returns the adjacent trading
// days, the convention-adjusted date, and optionally a settlement date.
// The market may be given explicitly or inferred from a symbol.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Date           models.Date `json:"date"`
		Symbol         string      `json:"symbol"`
		Market         string      `json:"market"`
		Convention     string      `json:"convention"`
		SettlementDays int         `json:"settlement_days"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Date.IsZero() {
		WriteError(w, http.StatusBadRequest, "date is required")
		return
	}

	market := calendar.Market(req.Market)
	if market == "" {
		market = calendar.InferMarket(req.Symbol)
	}

	resp := map[string]interface{}{
		"date":                 req.Date,
		"market":               market,
		"is_trading_day":       calendar.IsTradingDay(req.Date.Time, market),
		"next_trading_day":     models.NewDate(calendar.NextTradingDay(req.Date.Time, market)),
		"previous_trading_day": models.NewDate(calendar.PreviousTradingDay(req.Date.Time, market)),
	}

	if req.Convention != "" {
		adjusted := calendar.AdjustToTradingDay(req.Date.Time, req.Convention, market)
		resp["convention"] = req.Convention
		resp["adjusted_date"] = models.NewDate(adjusted)
	}
	if req.SettlementDays > 0 {
		settlement := calendar.SettlementDate(req.Date.Time, req.SettlementDays, market)
		resp["settlement_days"] = req.SettlementDays
		resp["settlement_date"] = models.NewDate(settlement)
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleIdentifiersValidate handles POST /api/identifiers/validate.
// Either explicit identifiers or free text may be supplied.
func (s *Server) handleIdentifiersValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		CUSIP string `json:"cusip"`
		ISIN  string `json:"isin"`
		Text  string `json:"text"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp := map[string]interface{}{}

	if req.CUSIP != "" {
		valid := identifiers.ValidateCUSIP(req.CUSIP)
		resp["cusip"] = req.CUSIP
		resp["cusip_valid"] = valid
		if valid {
			resp["isin_from_cusip"] = identifiers.CUSIPToISIN(req.CUSIP, "US")
		}
	}
	if req.ISIN != "" {
		resp["isin"] = req.ISIN
		resp["isin_valid"] = identifiers.ValidateISIN(req.ISIN)
	}
	if req.Text != "" {
		resp["extracted"] = identifiers.ExtractAll(req.Text)
	}

	if len(resp) == 0 {
		WriteError(w, http.StatusBadRequest, "cusip, isin or text is required")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
