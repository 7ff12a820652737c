// Package mock provides the in-process data service: fixture payloads and a
// random-walk price history generator.
package mock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/models"
)

// HistoryDays is the look-back of the generated series. The series holds
// HistoryDays+1 bars, ending today.
const HistoryDays = 365

// Provider implements interfaces.DataProvider from fixtures.
type Provider struct {
	mu         sync.Mutex
	rng        *rand.Rand
	now        func() time.Time
	strictOHLC bool
	latency    time.Duration
	logger     *common.Logger
}

// Option configures the provider
type Option func(*Provider)

// WithSeed makes the historical generator deterministic.
func WithSeed(seed int64) Option {
	return func(p *Provider) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(p *Provider) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithClock overrides the time source used to date the series.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithStrictOHLC clamps each bar so high >= max(open, close) and low <= min(open, close).
func WithStrictOHLC(strict bool) Option {
	return func(p *Provider) {
		p.strictOHLC = strict
	}
}

// WithLatency delays every call, simulating network I/O.
func WithLatency(d time.Duration) Option {
	return func(p *Provider) {
		p.latency = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// NewProvider creates a mock provider. Without WithSeed the series differs per call.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewProviderFromConfig builds a provider from the [provider] config section.
func NewProviderFromConfig(cfg common.ProviderConfig, logger *common.Logger) *Provider {
	opts := []Option{
		WithStrictOHLC(cfg.StrictOHLC),
		WithLatency(cfg.GetLatency()),
		WithLogger(logger),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return NewProvider(opts...)
}

// wait simulates I/O latency, returning early when ctx is done.
func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MarketSummary returns the market overview. The range does not change the fixture.
func (p *Provider) MarketSummary(ctx context.Context, timeRange string) (*models.MarketSummary, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("range", timeRange).Msg("mock: market summary")
	return marketSummaryFixture(), nil
}

// PortfolioSummary returns the user's portfolio summary.
func (p *Provider) PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return portfolioSummaryFixture(), nil
}

// StockData returns the quote for symbol, or an "Unknown Company" placeholder.
// Symbols match exactly; "aapl" is not "AAPL".
func (p *Provider) StockData(ctx context.Context, symbol string) (*models.StockQuote, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if q, ok := stockFixture(symbol); ok {
		return q, nil
	}
	p.logger.Debug().Str("symbol", symbol).Msg("mock: unknown symbol, returning placeholder")
	return &models.StockQuote{
		Symbol: symbol,
		Name:   "Unknown Company",
		Price:  100.0,
	}, nil
}

// HistoricalData returns a daily random-walk series for symbol.
// Period and interval are accepted for interface parity; the series is always daily over a year.
func (p *Provider) HistoricalData(ctx context.Context, symbol, period, interval string) ([]models.HistoricalBar, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.logger.Debug().Str("symbol", symbol).Str("period", period).Str("interval", interval).Msg("mock: historical data")
	return p.generateHistory(), nil
}

// Recommendations returns the buy/sell/hold lists.
func (p *Provider) Recommendations(ctx context.Context) (*models.Recommendations, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return recommendationsFixture(), nil
}

// PortfolioAnalysis returns the analysis fixture. The id is not consulted.
func (p *Provider) PortfolioAnalysis(ctx context.Context, portfolioID int) (*models.PortfolioAnalysis, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	p.logger.Debug().Int("portfolio_id", portfolioID).Msg("mock: portfolio analysis")
	return portfolioAnalysisFixture(), nil
}

// SectorPerformance returns sector name to performance percent.
func (p *Provider) SectorPerformance(ctx context.Context) (map[string]float64, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, s := range marketSummaryFixture().Sectors {
		out[s.Name] = s.Performance
	}
	return out, nil
}
