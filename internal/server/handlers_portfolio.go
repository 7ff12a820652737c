package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/quantdash/internal/view"
)

func (s *Server) handlePortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.app.Queries.PortfolioSummary(r.Context())
	if err != nil {
		s.writeQueryError(w, r, "portfolio summary", err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	summary, err := s.app.Queries.PortfolioSummary(r.Context())
	if err != nil {
		s.writeQueryError(w, r, "portfolio summary", err)
		return
	}

	labels := make([]string, len(summary.Allocation))
	values := make([]float64, len(summary.Allocation))
	for i, slice := range summary.Allocation {
		labels[i] = slice.Category
		values[i] = slice.Value
	}

	var buf bytes.Buffer
	if err := view.RenderPieChart(&buf, "Allocation", labels, values, view.PieOptions{}, view.DefaultChartHeight, view.DefaultChartHeight); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render allocation chart")
		WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	WritePNG(w, buf.Bytes())
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.app.Queries.Recommendations(r.Context())
	if err != nil {
		s.writeQueryError(w, r, "recommendations", err)
		return
	}
	WriteJSON(w, http.StatusOK, recs)
}

func (s *Server) handlePortfolioAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "portfolio id must be an integer")
		return
	}
	analysis, err := s.app.Queries.PortfolioAnalysis(r.Context(), id)
	if err != nil {
		s.writeQueryError(w, r, "portfolio analysis", err)
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}
