package server

import (
	"bytes"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/pages"
	"github.com/bobmcallan/quantdash/internal/view"
)

const (
	defaultPeriod   = "1y"
	defaultInterval = "1d"
	maxSMAPeriod    = 200
)

func (s *Server) handleMarketSummary(w http.ResponseWriter, r *http.Request) {
	timeRange := r.URL.Query().Get("range")
	if timeRange == "" {
		timeRange = pages.DefaultTimeRange
	}
	if !pages.ValidTimeRange(timeRange) {
		WriteError(w, http.StatusBadRequest, "range must be one of "+strings.Join(pages.TimeRanges, ", "))
		return
	}

	summary, err := s.app.Queries.MarketSummary(r.Context(), timeRange)
	if err != nil {
		s.writeQueryError(w, r, "market summary", err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleIndicesChart(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pages.RenderIndicesChart(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render indices chart")
		WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	WritePNG(w, buf.Bytes())
}

func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	quote, err := s.app.Queries.StockData(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeQueryError(w, r, "stock data", err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

func (s *Server) handleHistoricalData(w http.ResponseWriter, r *http.Request) {
	period, interval := historyWindow(r)
	bars, err := s.app.Queries.HistoricalData(r.Context(), chi.URLParam(r, "symbol"), period, interval)
	if err != nil {
		s.writeQueryError(w, r, "historical data", err)
		return
	}
	WriteJSON(w, http.StatusOK, bars)
}

func (s *Server) handleHistoricalChart(w http.ResponseWriter, r *http.Request) {
	sma, ok := queryInt(r, "sma", 0)
	if !ok || sma < 0 || sma > maxSMAPeriod {
		WriteError(w, http.StatusBadRequest, "sma must be an integer between 0 and 200")
		return
	}

	symbol := chi.URLParam(r, "symbol")
	period, interval := historyWindow(r)
	bars, err := s.app.Queries.HistoricalData(r.Context(), symbol, period, interval)
	if err != nil {
		s.writeQueryError(w, r, "historical data", err)
		return
	}

	var buf bytes.Buffer
	data := view.HistoryChartData(symbol, bars, sma)
	if err := view.RenderLineChart(&buf, data, view.LineOptions{}, view.DefaultChartWidth, view.DefaultChartHeight); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to render history chart")
		WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	WritePNG(w, buf.Bytes())
}

func (s *Server) handleSectorPerformance(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.app.Queries.SectorPerformance(r.Context())
	if err != nil {
		s.writeQueryError(w, r, "sector performance", err)
		return
	}
	WriteJSON(w, http.StatusOK, sectors)
}

func (s *Server) handleSectorPerformanceChart(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.app.Queries.SectorPerformance(r.Context())
	if err != nil {
		s.writeQueryError(w, r, "sector performance", err)
		return
	}

	names := make([]string, 0, len(sectors))
	for name := range sectors {
		names = append(names, name)
	}
	sort.Strings(names)
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = sectors[name]
	}

	var buf bytes.Buffer
	if err := view.RenderBarChart(&buf, "Sector Performance (%)", names, values, view.BarOptions{}, view.DefaultChartWidth, view.DefaultChartHeight); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render sector chart")
		WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	WritePNG(w, buf.Bytes())
}

func historyWindow(r *http.Request) (period, interval string) {
	period = r.URL.Query().Get("period")
	if period == "" {
		period = defaultPeriod
	}
	interval = r.URL.Query().Get("interval")
	if interval == "" {
		interval = defaultInterval
	}
	return period, interval
}

// writeQueryError reports a provider failure behind a query.
func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, what string, err error) {
	s.logger.Error().
		Err(err).
		Str("query", what).
		Str("user_id", common.ResolveUserID(r.Context())).
		Msg("Query failed")
	WriteError(w, http.StatusBadGateway, what+" unavailable")
}
