package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		authenticated bool
		wantPage      Page
		wantRedirect  string
		wantParams    map[string]string
	}{
		{"login anonymous", "/login", false, PageLogin, "", nil},
		{"register anonymous", "/register", false, PageRegister, "", nil},
		{"login with session", "/login", true, PageLogin, "/dashboard", nil},
		{"root anonymous", "/", false, "", "/dashboard", nil},
		{"root authenticated", "/", true, "", "/dashboard", nil},
		{"dashboard anonymous", "/dashboard", false, PageDashboard, "/login", nil},
		{"dashboard authenticated", "/dashboard", true, PageDashboard, "", nil},
		{"market data", "/market-data", true, PageMarketData, "", nil},
		{"portfolio", "/portfolio", true, PagePortfolio, "", nil},
		{"portfolio detail", "/portfolio/42", true, PagePortfolioDetail, "", map[string]string{"id": "42"}},
		{"portfolio detail anonymous", "/portfolio/42", false, PagePortfolioDetail, "/login", map[string]string{"id": "42"}},
		{"optimization", "/optimization", true, PageOptimization, "", nil},
		{"backtesting", "/backtesting", true, PageBacktesting, "", nil},
		{"machine learning", "/machine-learning", true, PageMachineLearning, "", nil},
		{"trailing slash", "/dashboard/", true, PageDashboard, "", nil},
		{"query string", "/market-data?symbol=AAPL", true, PageMarketData, "", nil},
		{"no leading slash", "portfolio", true, PagePortfolio, "", nil},
		{"unknown", "/does-not-exist", true, PageNotFound, "", nil},
		{"unknown anonymous", "/does-not-exist", false, PageNotFound, "", nil},
		{"too deep", "/portfolio/1/extra", true, PageNotFound, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.path, tt.authenticated)
			assert.Equal(t, tt.wantPage, res.Page)
			assert.Equal(t, tt.wantRedirect, res.Redirect)
			for k, v := range tt.wantParams {
				assert.Equal(t, v, res.Params[k])
			}
		})
	}
}

func TestFollow(t *testing.T) {
	res, err := Follow("/", false)
	require.NoError(t, err)
	assert.Equal(t, PageLogin, res.Page)
	assert.Empty(t, res.Redirect)

	res, err = Follow("/", true)
	require.NoError(t, err)
	assert.Equal(t, PageDashboard, res.Page)

	res, err = Follow("/login", true)
	require.NoError(t, err)
	assert.Equal(t, PageDashboard, res.Page)

	res, err = Follow("/nowhere", false)
	require.NoError(t, err)
	assert.True(t, res.NotFound())
}
