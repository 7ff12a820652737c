package query

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quantdash/internal/models"
	"github.com/bobmcallan/quantdash/internal/provider/mock"
)

// countingProvider counts MarketSummary calls on top of the mock provider.
type countingProvider struct {
	*mock.Provider
	summaries atomic.Int32
}

func (c *countingProvider) MarketSummary(ctx context.Context, timeRange string) (*models.MarketSummary, error) {
	c.summaries.Add(1)
	return c.Provider.MarketSummary(ctx, timeRange)
}

func TestDashboard_ConcurrentSameKeyOneCall(t *testing.T) {
	p := &countingProvider{Provider: mock.NewProvider(mock.WithLatency(30 * time.Millisecond))}
	d := NewDashboard(NewCache(), p)

	var wg sync.WaitGroup
	results := make([]*models.MarketSummary, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := d.MarketSummary(context.Background(), "1M")
			if err != nil {
				t.Errorf("MarketSummary: %v", err)
			}
			results[i] = s
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), p.summaries.Load())
	require.NotNil(t, results[0])
	assert.Same(t, results[0], results[1])
}

func TestDashboard_DistinctRangesDistinctEntries(t *testing.T) {
	p := &countingProvider{Provider: mock.NewProvider()}
	d := NewDashboard(NewCache(), p)
	ctx := context.Background()

	month, err := d.MarketSummary(ctx, "1M")
	require.NoError(t, err)
	year, err := d.MarketSummary(ctx, "1Y")
	require.NoError(t, err)

	assert.NotSame(t, month, year)
	assert.Equal(t, int32(2), p.summaries.Load())

	again, err := d.MarketSummary(ctx, "1M")
	require.NoError(t, err)
	assert.Same(t, month, again)
	assert.Equal(t, int32(2), p.summaries.Load())
}

func TestDashboard_SymbolKeyIsExact(t *testing.T) {
	d := NewDashboard(NewCache(), mock.NewProvider())
	ctx := context.Background()

	lower, err := d.StockData(ctx, "aapl")
	require.NoError(t, err)
	upper, err := d.StockData(ctx, "AAPL")
	require.NoError(t, err)

	assert.NotSame(t, lower, upper)
	assert.Equal(t, "aapl", lower.Symbol)
	assert.Equal(t, "Unknown Company", lower.Name)
	assert.Equal(t, "Apple Inc", upper.Name)
	assert.Equal(t, StatusSuccess, d.Cache().State(StockDataKey("aapl")).Status)
	assert.Equal(t, StatusSuccess, d.Cache().State(StockDataKey("AAPL")).Status)
	assert.NotEqual(t, StockDataKey("aapl").String(), StockDataKey("AAPL").String())
}

func TestDashboard_AllQueries(t *testing.T) {
	d := NewDashboard(NewCache(), mock.NewProvider(mock.WithSeed(1)))
	ctx := context.Background()

	_, err := d.PortfolioSummary(ctx)
	assert.NoError(t, err)
	bars, err := d.HistoricalData(ctx, "AAPL", "1y", "1d")
	assert.NoError(t, err)
	assert.Len(t, bars, mock.HistoryDays+1)
	_, err = d.Recommendations(ctx)
	assert.NoError(t, err)
	_, err = d.PortfolioAnalysis(ctx, 3)
	assert.NoError(t, err)
	sectors, err := d.SectorPerformance(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, sectors)

	assert.Equal(t, 5, d.Cache().Len())
}

func TestDashboard_HistoryRollsOverAtMidnight(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	d := NewDashboard(NewCache(WithClock(clock)), mock.NewProvider(mock.WithSeed(5), mock.WithClock(clock)))
	ctx := context.Background()

	before, err := d.HistoricalData(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", before[len(before)-1].Date)

	same, err := d.HistoricalData(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Same(t, &before[0], &same[0])

	now = now.Add(2 * time.Minute)
	after, err := d.HistoricalData(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", after[len(after)-1].Date)
	assert.Equal(t, 2, d.Cache().Len())
}
