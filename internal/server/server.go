package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bobmcallan/quantdash/internal/analytics"
	"github.com/bobmcallan/quantdash/internal/app"
	"github.com/bobmcallan/quantdash/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	router chi.Router
	server *http.Server
	logger *common.Logger
}

// NewServer creates the dashboard REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	s.router = s.routes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start validates the analysis fixture and starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.checkAnalysis()
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// checkAnalysis warns when the provider's correlation matrix is not a valid correlation matrix.
func (s *Server) checkAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	analysis, err := s.app.Queries.PortfolioAnalysis(ctx, 1)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Portfolio analysis unavailable at startup")
		return
	}
	if err := analytics.ValidateCorrelation(analysis.CorrelationMatrix); err != nil {
		s.logger.Warn().Err(err).Msg("Portfolio analysis correlation matrix is invalid")
	}
}
