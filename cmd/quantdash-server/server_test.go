package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quantdash/internal/app"
	"github.com/bobmcallan/quantdash/internal/clients/dashapi"
	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/server"
	"github.com/bobmcallan/quantdash/internal/session"
)

// testServer starts the full API handler backed by the mock provider.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Backend = "memory"
	config.Provider.Seed = 3

	a, err := app.NewAppFromConfig(config, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	ts := httptest.NewServer(server.NewServer(a).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// clientApp builds a client-side App that talks to url through the HTTP provider.
func clientApp(t *testing.T, url string) *app.App {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Provider.Kind = app.ProviderHTTP
	config.API.BaseURL = url
	config.API.RateLimit = 100
	config.Storage.Backend = "file"
	config.Storage.Path = t.TempDir()

	a, err := app.NewAppFromConfig(config, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestClientAgainstServer_SignedOutIsRejected(t *testing.T) {
	ts := testServer(t)
	a := clientApp(t, ts.URL)

	_, err := a.Queries.MarketSummary(context.Background(), "1M")
	require.Error(t, err)

	var apiErr *dashapi.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestClientAgainstServer_FullFlow(t *testing.T) {
	ts := testServer(t)
	a := clientApp(t, ts.URL)
	ctx := context.Background()

	require.NoError(t, a.Session.Login(ctx, "demo@example.com", "secret"))
	assert.Equal(t, session.StateAuthenticated, a.Session.State())

	user, err := a.APIClient.ValidateToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", user.Email)

	summary, err := a.Queries.MarketSummary(ctx, "1M")
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Indices)

	quote, err := a.Queries.StockData(ctx, "zzzz")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Company", quote.Name)

	bars, err := a.Queries.HistoricalData(ctx, "AAPL", "1y", "1d")
	require.NoError(t, err)
	assert.Len(t, bars, 366)

	analysis, err := a.Queries.PortfolioAnalysis(ctx, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.CorrelationMatrix)

	sectors, err := a.Queries.SectorPerformance(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sectors)

	a.Session.Logout(ctx)
	a.Cache.Clear()
	_, err = a.Queries.PortfolioSummary(ctx)
	assert.Error(t, err, "bearer must be gone after logout")
}

func TestClientAgainstServer_RejectedLogin(t *testing.T) {
	ts := testServer(t)
	a := clientApp(t, ts.URL)

	err := a.Session.Login(context.Background(), "demo@example.com", "")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, session.StateAnonymous, a.Session.State())
}
