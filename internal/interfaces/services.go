// Package interfaces defines service contracts for quantdash
package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/quantdash/internal/models"
)

// ErrInvalidCredentials is returned by an Authenticator when the credentials are rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DataProvider is the data-service capability the query layer depends on.
// Variants: the in-process mock (provider/mock) and the HTTP client (clients/dashapi).
//
// Unknown symbols and portfolio ids are soft misses: implementations return a
// placeholder payload, never a not-found error. Errors signal transport failure.
type DataProvider interface {
	MarketSummary(ctx context.Context, timeRange string) (*models.MarketSummary, error)
	PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error)
	StockData(ctx context.Context, symbol string) (*models.StockQuote, error)
	HistoricalData(ctx context.Context, symbol, period, interval string) ([]models.HistoricalBar, error)
	Recommendations(ctx context.Context) (*models.Recommendations, error)
	PortfolioAnalysis(ctx context.Context, portfolioID int) (*models.PortfolioAnalysis, error)
	SectorPerformance(ctx context.Context) (map[string]float64, error)
}

// Authenticator exchanges user credentials for an identity and bearer credential.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResult, error)
}
