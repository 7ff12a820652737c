package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quantdash/internal/provider/mock"
	"github.com/bobmcallan/quantdash/internal/query"
	"github.com/bobmcallan/quantdash/internal/routes"
)

func newTestRenderer(t *testing.T) (*Renderer, *query.Cache) {
	t.Helper()
	cache := query.NewCache()
	data := query.NewDashboard(cache, mock.NewProvider(mock.WithSeed(1)))
	return NewRenderer(data, WithMarkdownStyle("notty"), WithWidth(200)), cache
}

func TestDashboard(t *testing.T) {
	r, cache := newTestRenderer(t)
	out, err := r.Dashboard(context.Background(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "Market Overview (1M)")
	assert.Contains(t, out, "S&P 500")
	assert.Contains(t, out, "-0.45%")
	assert.Contains(t, out, "+2.05%")
	assert.Contains(t, out, "$487,291.42")
	assert.Contains(t, out, "Top Gainers")
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "Top Losers")
	assert.Contains(t, out, "Technology")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "Market Indices (Jan-Sep)")
	assert.Contains(t, out, "4200 → 4550 (+8.33%)")
	assert.Contains(t, out, "14200 → 15200 (+7.04%)")

	// Everything came through the cache
	assert.Equal(t, query.StatusSuccess, cache.State(query.MarketSummaryKey("1M")).Status)
	assert.Equal(t, query.StatusSuccess, cache.State(query.PortfolioSummaryKey()).Status)
	assert.Equal(t, query.StatusSuccess, cache.State(query.RecommendationsKey()).Status)
}

func TestMarketData_UnknownSymbol(t *testing.T) {
	r, _ := newTestRenderer(t)
	out, err := r.MarketData(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown Company")
	assert.Contains(t, out, "+0%")
	assert.Contains(t, out, "366")
}

func TestMarketData_KnownSymbol(t *testing.T) {
	r, _ := newTestRenderer(t)
	out, err := r.MarketData(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Contains(t, out, "Microsoft Corp")
	assert.Contains(t, out, "$405.72")
	assert.Contains(t, out, "35.28")
}

func TestHistoryChart(t *testing.T) {
	r, _ := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.HistoryChart(context.Background(), &buf, "AAPL", 20))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderIndicesChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderIndicesChart(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
	assert.Len(t, MarketIndices().Datasets, 2)
}

func TestPortfolio(t *testing.T) {
	r, _ := newTestRenderer(t)
	out, err := r.Portfolio(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "Asset Allocation")
	assert.Contains(t, out, "Crypto")
	assert.Contains(t, out, "GOOGL")
	assert.Contains(t, out, "$73,029.60")
}

func TestPortfolioDetail(t *testing.T) {
	r, _ := newTestRenderer(t)
	out, err := r.PortfolioDetail(context.Background(), "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Portfolio 7 Analysis")
	assert.Contains(t, out, "Market Crash (-20%)")
	assert.Contains(t, out, "-15.4%")
	assert.Contains(t, out, "North America")

	_, err = r.PortfolioDetail(context.Background(), "abc")
	assert.Error(t, err)
}

func TestRender_Dispatch(t *testing.T) {
	r, _ := newTestRenderer(t)
	ctx := context.Background()

	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "Market Overview"},
		{"/portfolio", "Positions"},
		{"/portfolio/1", "Portfolio 1 Analysis"},
		{"/market-data", "Apple Inc"},
		{"/optimization", "Portfolio Optimization"},
		{"/backtesting", "Strategy Backtesting"},
		{"/machine-learning", "Machine Learning Models"},
		{"/missing", "404"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := routes.Follow(tt.path, true)
			require.NoError(t, err)
			out, err := r.Render(ctx, res, Params{})
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestValidTimeRange(t *testing.T) {
	for _, r := range TimeRanges {
		assert.True(t, ValidTimeRange(r))
	}
	assert.False(t, ValidTimeRange("5Y"))
	assert.False(t, ValidTimeRange(""))
}
