package mock

import "github.com/bobmcallan/quantdash/internal/models"

// Fixture builders return a new value on every call so callers may mutate freely.

func marketSummaryFixture() *models.MarketSummary {
	return &models.MarketSummary{
		Indices: []models.IndexQuote{
			{Name: "S&P 500", Value: 4782.30, Change: 1.23, ChangePercent: 0.026},
			{Name: "NASDAQ", Value: 15612.45, Change: 312.05, ChangePercent: 0.0205},
			{Name: "DOW JONES", Value: 38412.56, Change: -172.23, ChangePercent: -0.0045},
		},
		Sectors: []models.SectorPerformance{
			{Name: "Technology", Performance: 2.1},
			{Name: "Healthcare", Performance: 0.8},
			{Name: "Finance", Performance: -0.5},
			{Name: "Energy", Performance: 1.2},
			{Name: "Consumer", Performance: 0.3},
		},
		TopGainers: []models.Mover{
			{Symbol: "AAPL", Name: "Apple Inc", Price: 198.50, ChangePercent: 3.2},
			{Symbol: "NVDA", Name: "NVIDIA Corp", Price: 850.35, ChangePercent: 4.8},
			{Symbol: "AMZN", Name: "Amazon.com Inc", Price: 178.25, ChangePercent: 2.7},
		},
		TopLosers: []models.Mover{
			{Symbol: "META", Name: "Meta Platforms Inc", Price: 472.10, ChangePercent: -1.8},
			{Symbol: "DIS", Name: "Walt Disney Co", Price: 112.45, ChangePercent: -2.3},
			{Symbol: "PFE", Name: "Pfizer Inc", Price: 29.82, ChangePercent: -3.1},
		},
	}
}

func portfolioSummaryFixture() *models.PortfolioSummary {
	return &models.PortfolioSummary{
		TotalValue:       487291.42,
		DayChange:        15721.34,
		DayChangePercent: 3.24,
		Allocation: []models.AllocationSlice{
			{Category: "Stocks", Value: 219281.14, Percentage: 45},
			{Category: "Bonds", Value: 146187.43, Percentage: 30},
			{Category: "Cash", Value: 48729.14, Percentage: 10},
			{Category: "Commodities", Value: 48729.14, Percentage: 10},
			{Category: "Crypto", Value: 24364.57, Percentage: 5},
		},
		Positions: []models.Position{
			{Symbol: "AAPL", Name: "Apple Inc", Shares: 250, Price: 198.50, Value: 49625.00, DayChange: 2.8},
			{Symbol: "MSFT", Name: "Microsoft Corp", Shares: 180, Price: 405.72, Value: 73029.60, DayChange: 1.5},
			{Symbol: "GOOGL", Name: "Alphabet Inc", Shares: 120, Price: 173.44, Value: 20812.80, DayChange: 0.9},
			{Symbol: "AMZN", Name: "Amazon.com Inc", Shares: 100, Price: 178.25, Value: 17825.00, DayChange: 2.7},
		},
	}
}

// stockFixture looks up a known symbol. Symbols are matched upper-case.
func stockFixture(symbol string) (*models.StockQuote, bool) {
	switch symbol {
	case "AAPL":
		return &models.StockQuote{
			Symbol: "AAPL", Name: "Apple Inc",
			Price: 198.50, Change: 6.15, ChangePercent: 3.2,
			Open: 193.21, High: 199.62, Low: 192.75,
			Volume: 89542312, MarketCap: 3078500000000,
			PE: 32.54, Dividend: 0.96, EPS: 6.16,
		}, true
	case "MSFT":
		return &models.StockQuote{
			Symbol: "MSFT", Name: "Microsoft Corp",
			Price: 405.72, Change: 6.02, ChangePercent: 1.5,
			Open: 400.12, High: 407.28, Low: 399.54,
			Volume: 21456324, MarketCap: 3012400000000,
			PE: 35.28, Dividend: 0.68, EPS: 11.52,
		}, true
	}
	return nil, false
}

func recommendationsFixture() *models.Recommendations {
	return &models.Recommendations{
		Buy: []models.Recommendation{
			{Symbol: "AAPL", Name: "Apple Inc", Reason: "Strong momentum with increasing volume. Price above 50-day moving average."},
			{Symbol: "NVDA", Name: "NVIDIA Corp", Reason: "Earnings growth expected to continue. AI sector leader."},
			{Symbol: "AMZN", Name: "Amazon.com Inc", Reason: "Cloud division showing accelerating growth. Strong technical support."},
		},
		Sell: []models.Recommendation{
			{Symbol: "NFLX", Name: "Netflix Inc", Reason: "Bearish divergence on RSI. Competition concerns affecting growth projections."},
			{Symbol: "BA", Name: "Boeing Co", Reason: "Continued production issues and regulatory scrutiny."},
		},
		Hold: []models.Recommendation{
			{Symbol: "MSFT", Name: "Microsoft Corp", Reason: "Stable performance near all-time highs. Watch for earnings announcement."},
			{Symbol: "GOOGL", Name: "Alphabet Inc", Reason: "Fair valuation with steady growth. Monitor for regulatory developments."},
		},
	}
}

func portfolioAnalysisFixture() *models.PortfolioAnalysis {
	return &models.PortfolioAnalysis{
		Performance: models.PerformanceMetrics{
			TotalReturn:      15.8,
			AnnualizedReturn: 12.4,
			SharpeRatio:      1.2,
			MaxDrawdown:      -8.3,
			Volatility:       14.5,
			Alpha:            2.1,
			Beta:             0.85,
		},
		RiskExposure: models.RiskExposure{
			SectorExposure: []models.SectorExposure{
				{Sector: "Technology", Exposure: 42},
				{Sector: "Healthcare", Exposure: 18},
				{Sector: "Financial", Exposure: 15},
				{Sector: "Consumer Cyclical", Exposure: 12},
				{Sector: "Industrial", Exposure: 8},
				{Sector: "Other", Exposure: 5},
			},
			GeographicExposure: []models.GeographicExposure{
				{Region: "North America", Exposure: 65},
				{Region: "Europe", Exposure: 20},
				{Region: "Asia", Exposure: 12},
				{Region: "Other", Exposure: 3},
			},
			FactorExposure: []models.FactorExposure{
				{Factor: "Market", Exposure: 1.0},
				{Factor: "Size", Exposure: 0.3},
				{Factor: "Value", Exposure: -0.2},
				{Factor: "Momentum", Exposure: 0.5},
				{Factor: "Quality", Exposure: 0.4},
			},
		},
		CorrelationMatrix: [][]float64{
			{1.0, 0.7, 0.5, 0.3, 0.2},
			{0.7, 1.0, 0.6, 0.4, 0.3},
			{0.5, 0.6, 1.0, 0.5, 0.4},
			{0.3, 0.4, 0.5, 1.0, 0.6},
			{0.2, 0.3, 0.4, 0.6, 1.0},
		},
		StressTests: []models.StressTest{
			{Scenario: "Market Crash (-20%)", Impact: -15.4},
			{Scenario: "Tech Sector Decline (-15%)", Impact: -7.2},
			{Scenario: "Interest Rate Hike (+1%)", Impact: -3.5},
			{Scenario: "USD Strengthening (+10%)", Impact: -2.8},
			{Scenario: "Commodity Surge (+20%)", Impact: 1.2},
		},
	}
}
