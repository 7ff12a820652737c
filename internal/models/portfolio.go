package models

// AllocationSlice is one asset-class slice of the portfolio.
type AllocationSlice struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Position is a single holding.
type Position struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
	Value     float64 `json:"value"`
	DayChange float64 `json:"dayChange"`
}

// PortfolioSummary is the headline view of the user's portfolio.
type PortfolioSummary struct {
	TotalValue       float64           `json:"totalValue"`
	DayChange        float64           `json:"dayChange"`
	DayChangePercent float64           `json:"dayChangePercent"`
	Allocation       []AllocationSlice `json:"allocation"`
	Positions        []Position        `json:"positions"`
}

// PerformanceMetrics are headline portfolio statistics, in percent where applicable.
type PerformanceMetrics struct {
	TotalReturn      float64 `json:"totalReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
	SharpeRatio      float64 `json:"sharpeRatio"`
	MaxDrawdown      float64 `json:"maxDrawdown"`
	Volatility       float64 `json:"volatility"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
}

// SectorExposure is the share of the portfolio in a sector.
type SectorExposure struct {
	Sector   string  `json:"sector"`
	Exposure float64 `json:"exposure"`
}

// GeographicExposure is the share of the portfolio in a region.
type GeographicExposure struct {
	Region   string  `json:"region"`
	Exposure float64 `json:"exposure"`
}

// FactorExposure is the loading on a risk factor.
type FactorExposure struct {
	Factor   string  `json:"factor"`
	Exposure float64 `json:"exposure"`
}

// RiskExposure groups the exposure breakdowns.
type RiskExposure struct {
	SectorExposure     []SectorExposure     `json:"sectorExposure"`
	GeographicExposure []GeographicExposure `json:"geographicExposure"`
	FactorExposure     []FactorExposure     `json:"factorExposure"`
}

// StressTest is the estimated portfolio impact of a scenario, in percent.
type StressTest struct {
	Scenario string  `json:"scenario"`
	Impact   float64 `json:"impact"`
}

// PortfolioAnalysis is the detailed analysis of a portfolio.
// CorrelationMatrix is square and symmetric with a unit diagonal.
type PortfolioAnalysis struct {
	Performance       PerformanceMetrics `json:"performance"`
	RiskExposure      RiskExposure       `json:"riskExposure"`
	CorrelationMatrix [][]float64        `json:"correlationMatrix"`
	StressTests       []StressTest       `json:"stressTests"`
}
