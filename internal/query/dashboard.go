package query

import (
	"context"
	"time"

	"github.com/bobmcallan/quantdash/internal/interfaces"
	"github.com/bobmcallan/quantdash/internal/models"
)

// Dashboard binds a data provider to a cache under the dashboard's query keys.
// Every provider call made through it is cached and de-duplicated per key.
type Dashboard struct {
	cache    *Cache
	provider interfaces.DataProvider
}

// NewDashboard creates a Dashboard over cache and provider.
func NewDashboard(cache *Cache, provider interfaces.DataProvider) *Dashboard {
	return &Dashboard{cache: cache, provider: provider}
}

// Cache returns the underlying cache.
func (d *Dashboard) Cache() *Cache {
	return d.cache
}

// Query keys.
func MarketSummaryKey(timeRange string) Key { return Key{"marketSummary", timeRange} }
func PortfolioSummaryKey() Key              { return Key{"portfolioSummary"} }
func StockDataKey(symbol string) Key        { return Key{"stockData", symbol} }

// HistoricalDataKey includes the UTC day so a cached series still ends on today after midnight.
func HistoricalDataKey(symbol, period, interval string, day time.Time) Key {
	return Key{"historicalData", symbol, period, interval, day.UTC().Format("2006-01-02")}
}

func RecommendationsKey() Key         { return Key{"recommendations"} }
func PortfolioAnalysisKey(id int) Key { return Key{"portfolioAnalysis", id} }
func SectorPerformanceKey() Key       { return Key{"sectorPerformance"} }

func (d *Dashboard) MarketSummary(ctx context.Context, timeRange string) (*models.MarketSummary, error) {
	return Get(ctx, d.cache, MarketSummaryKey(timeRange), func(ctx context.Context) (*models.MarketSummary, error) {
		return d.provider.MarketSummary(ctx, timeRange)
	})
}

func (d *Dashboard) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	return Get(ctx, d.cache, PortfolioSummaryKey(), d.provider.PortfolioSummary)
}

func (d *Dashboard) StockData(ctx context.Context, symbol string) (*models.StockQuote, error) {
	return Get(ctx, d.cache, StockDataKey(symbol), func(ctx context.Context) (*models.StockQuote, error) {
		return d.provider.StockData(ctx, symbol)
	})
}

func (d *Dashboard) HistoricalData(ctx context.Context, symbol, period, interval string) ([]models.HistoricalBar, error) {
	return Get(ctx, d.cache, HistoricalDataKey(symbol, period, interval, d.cache.now()), func(ctx context.Context) ([]models.HistoricalBar, error) {
		return d.provider.HistoricalData(ctx, symbol, period, interval)
	})
}

func (d *Dashboard) Recommendations(ctx context.Context) (*models.Recommendations, error) {
	return Get(ctx, d.cache, RecommendationsKey(), d.provider.Recommendations)
}

func (d *Dashboard) PortfolioAnalysis(ctx context.Context, portfolioID int) (*models.PortfolioAnalysis, error) {
	return Get(ctx, d.cache, PortfolioAnalysisKey(portfolioID), func(ctx context.Context) (*models.PortfolioAnalysis, error) {
		return d.provider.PortfolioAnalysis(ctx, portfolioID)
	})
}

func (d *Dashboard) SectorPerformance(ctx context.Context) (map[string]float64, error) {
	return Get(ctx, d.cache, SectorPerformanceKey(), d.provider.SectorPerformance)
}
