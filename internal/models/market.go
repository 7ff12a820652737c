// Package models defines the dashboard payload types shared by providers, server and views.
package models

// IndexQuote is a headline market index reading.
type IndexQuote struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// SectorPerformance is a sector's performance over the requested range, in percent.
type SectorPerformance struct {
	Name        string  `json:"name"`
	Performance float64 `json:"performance"`
}

// Mover is a top gainer or loser.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

// MarketSummary is the market overview for a time range.
type MarketSummary struct {
	Indices    []IndexQuote        `json:"indices"`
	Sectors    []SectorPerformance `json:"sectors"`
	TopGainers []Mover             `json:"topGainers"`
	TopLosers  []Mover             `json:"topLosers"`
}

// StockQuote holds the current quote and fundamentals for a symbol.
// Fundamentals are zero for placeholder records.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Open          float64 `json:"open,omitempty"`
	High          float64 `json:"high,omitempty"`
	Low           float64 `json:"low,omitempty"`
	Volume        int64   `json:"volume,omitempty"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	PE            float64 `json:"pe,omitempty"`
	Dividend      float64 `json:"dividend,omitempty"`
	EPS           float64 `json:"eps,omitempty"`
}

// HistoricalBar is one daily OHLCV bar. Date is a calendar date (YYYY-MM-DD).
type HistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Closes extracts the close series from bars, preserving order.
func Closes(bars []HistoricalBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
