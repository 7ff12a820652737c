package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bobmcallan/quantdash/internal/common"
)

// routes builds the router. Data routes require a bearer credential.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(recoveryMiddleware(s.logger))
	r.Use(corsMiddleware())
	r.Use(correlationIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		// System
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/diagnostics", s.handleDiagnostics)

		// Auth
		r.Post("/auth/login", s.handleAuthLogin)
		r.Post("/auth/register", s.handleAuthRegister)

		r.Group(func(r chi.Router) {
			r.Use(requireBearer(&s.app.Config.Auth))

			r.Get("/auth/validate", s.handleAuthValidate)

			r.Route("/market-data", func(r chi.Router) {
				r.Get("/summary", s.handleMarketSummary)
				r.Get("/indices/chart", s.handleIndicesChart)
				r.Get("/stock/{symbol}", s.handleStockData)
				r.Get("/historical/{symbol}", s.handleHistoricalData)
				r.Get("/historical/{symbol}/chart", s.handleHistoricalChart)
				r.Get("/sector-performance", s.handleSectorPerformance)
				r.Get("/sector-performance/chart", s.handleSectorPerformanceChart)
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/summary", s.handlePortfolioSummary)
				r.Get("/allocation/chart", s.handleAllocationChart)
				r.Get("/recommendations", s.handleRecommendations)
				r.Get("/{id}/analysis", s.handlePortfolioAnalysis)
			})
		})
	})

	return r
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	resp := map[string]interface{}{
		"version":       common.GetVersion(),
		"build":         common.GetBuild(),
		"commit":        common.GetGitCommit(),
		"uptime":        uptime.String(),
		"started_at":    s.app.StartupTime,
		"provider":      s.app.Config.Provider.Kind,
		"goroutines":    runtime.NumGoroutine(),
		"cache_entries": s.app.Cache.Len(),
	}

	if pct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pct) > 0 {
		resp["cpu_percent"] = pct[0]
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to get CPU percentage")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp["memory_used_percent"] = vm.UsedPercent
	} else {
		s.logger.Warn().Err(err).Msg("Failed to get memory statistics")
	}

	WriteJSON(w, http.StatusOK, resp)
}
