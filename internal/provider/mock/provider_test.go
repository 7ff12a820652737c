package mock

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quantdash/internal/analytics"
	"github.com/bobmcallan/quantdash/internal/interfaces"
)

var _ interfaces.DataProvider = (*Provider)(nil)
var _ interfaces.Authenticator = (*Authenticator)(nil)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
}

func TestStockData_KnownSymbol(t *testing.T) {
	p := NewProvider()
	q, err := p.StockData(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", q.Name)
	assert.Equal(t, 198.50, q.Price)
	assert.Equal(t, int64(89542312), q.Volume)

	q, err = p.StockData(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corp", q.Name)
}

func TestStockData_LookupIsExact(t *testing.T) {
	p := NewProvider()
	for _, sym := range []string{"aapl", "Msft", " AAPL"} {
		q, err := p.StockData(context.Background(), sym)
		require.NoError(t, err, "symbol %q", sym)
		assert.Equal(t, sym, q.Symbol)
		assert.Equal(t, "Unknown Company", q.Name)
		assert.Zero(t, q.ChangePercent)
	}
}

func TestStockData_UnknownSymbolIsSoftMiss(t *testing.T) {
	p := NewProvider()
	for _, sym := range []string{"ZZZZ", "TSLA", ""} {
		q, err := p.StockData(context.Background(), sym)
		require.NoError(t, err, "symbol %q", sym)
		assert.Equal(t, sym, q.Symbol)
		assert.Equal(t, "Unknown Company", q.Name)
		assert.Equal(t, 100.0, q.Price)
		assert.Zero(t, q.Change)
		assert.Zero(t, q.ChangePercent)
	}
}

func TestHistoricalData_ShapeAndDates(t *testing.T) {
	p := NewProvider(WithSeed(42), WithClock(fixedClock))
	bars, err := p.HistoricalData(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	require.Len(t, bars, HistoryDays+1)

	assert.Equal(t, "2024-03-01", bars[len(bars)-1].Date)
	assert.Equal(t, "2023-03-02", bars[0].Date)

	for i := 1; i < len(bars); i++ {
		prev, _ := time.Parse("2006-01-02", bars[i-1].Date)
		cur, _ := time.Parse("2006-01-02", bars[i].Date)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev), "bar %d not one day after previous", i)
	}

	for i, b := range bars {
		assert.GreaterOrEqual(t, b.Volume, int64(5_000_000), "bar %d", i)
		assert.Less(t, b.Volume, int64(15_000_000), "bar %d", i)
		assert.LessOrEqual(t, b.Open, b.Close, "bar %d", i)
		assert.GreaterOrEqual(t, b.High, b.Close, "bar %d", i)
		assert.LessOrEqual(t, b.Low, b.Close, "bar %d", i)
	}
}

func TestHistoricalData_StepBounded(t *testing.T) {
	p := NewProvider(WithSeed(7), WithClock(fixedClock))
	bars, err := p.HistoricalData(context.Background(), "X", "", "")
	require.NoError(t, err)

	prev := startPrice
	for i, b := range bars {
		step := (b.Close/prev - 1) * 100
		assert.GreaterOrEqual(t, step, -0.96-1e-9, "bar %d", i)
		assert.LessOrEqual(t, step, 1.04+1e-9, "bar %d", i)
		prev = b.Close
	}
}

func TestHistoricalData_SeededIsReproducible(t *testing.T) {
	a := NewProvider(WithSeed(99), WithClock(fixedClock))
	b := NewProvider(WithSeed(99), WithClock(fixedClock))

	barsA, err := a.HistoricalData(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	barsB, err := b.HistoricalData(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Equal(t, barsA, barsB)

	c := NewProvider(WithSeed(100), WithClock(fixedClock))
	barsC, err := c.HistoricalData(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.NotEqual(t, barsA, barsC)
}

func TestHistoricalData_StrictOHLC(t *testing.T) {
	p := NewProvider(WithSeed(3), WithClock(fixedClock), WithStrictOHLC(true))
	bars, err := p.HistoricalData(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)
	for i, b := range bars {
		assert.GreaterOrEqual(t, b.High, math.Max(b.Open, b.Close), "bar %d", i)
		assert.LessOrEqual(t, b.Low, math.Min(b.Open, b.Close), "bar %d", i)
	}
}

func TestFixturesAreFreshPerCall(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	first, err := p.MarketSummary(ctx, "1d")
	require.NoError(t, err)
	first.Indices[0].Value = -1
	first.TopGainers = nil

	second, err := p.MarketSummary(ctx, "1d")
	require.NoError(t, err)
	assert.Equal(t, 4782.30, second.Indices[0].Value)
	assert.Len(t, second.TopGainers, 3)
}

func TestMarketSummary_Order(t *testing.T) {
	s, err := NewProvider().MarketSummary(context.Background(), "1w")
	require.NoError(t, err)

	names := make([]string, len(s.Indices))
	for i, idx := range s.Indices {
		names[i] = idx.Name
	}
	assert.Equal(t, []string{"S&P 500", "NASDAQ", "DOW JONES"}, names)
	assert.Equal(t, "PFE", s.TopLosers[2].Symbol)
}

func TestPortfolioSummary(t *testing.T) {
	s, err := NewProvider().PortfolioSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 487291.42, s.TotalValue)

	var pct float64
	for _, a := range s.Allocation {
		pct += a.Percentage
	}
	assert.InDelta(t, 100, pct, 1e-9)
	assert.Len(t, s.Positions, 4)
}

func TestPortfolioAnalysis_IgnoresIDAndValidCorrelation(t *testing.T) {
	p := NewProvider()
	a, err := p.PortfolioAnalysis(context.Background(), 1)
	require.NoError(t, err)
	b, err := p.PortfolioAnalysis(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	assert.NoError(t, analytics.ValidateCorrelation(a.CorrelationMatrix))
	assert.Len(t, a.StressTests, 5)
	assert.Equal(t, 0.85, a.Performance.Beta)
}

func TestRecommendations(t *testing.T) {
	r, err := NewProvider().Recommendations(context.Background())
	require.NoError(t, err)
	assert.Len(t, r.Buy, 3)
	assert.Len(t, r.Sell, 2)
	assert.Len(t, r.Hold, 2)
	assert.Equal(t, "NFLX", r.Sell[0].Symbol)
}

func TestSectorPerformance(t *testing.T) {
	m, err := NewProvider().SectorPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.1, m["Technology"])
	assert.Equal(t, -0.5, m["Finance"])
	assert.Len(t, m, 5)
}

func TestLatency_HonoursContext(t *testing.T) {
	p := NewProvider(WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.MarketSummary(ctx, "1d")
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestAuthenticator(t *testing.T) {
	a := NewAuthenticator()
	ctx := context.Background()

	res, err := a.Login(ctx, "trader@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "1", res.User.ID)
	assert.Equal(t, "Demo User", res.User.Name)
	assert.Equal(t, "trader@example.com", res.User.Email)
	assert.Equal(t, "https://via.placeholder.com/40", res.User.Avatar)
	assert.Equal(t, MockToken, res.Token)

	res, err = a.Register(ctx, "Ada", "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.User.Name)

	_, err = a.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, interfaces.ErrInvalidCredentials)
	_, err = a.Register(ctx, "Ada", "ada@example.com", "")
	assert.ErrorIs(t, err, interfaces.ErrInvalidCredentials)
}
