package mock

import (
	"math"
	"time"

	"github.com/bobmcallan/quantdash/internal/models"
)

const (
	startPrice = 100.0
	// drift shifts the uniform draw so the walk trends slightly upward.
	drift = 0.48
)

// generateHistory produces HistoryDays+1 daily bars ending on today's UTC date.
func (p *Provider) generateHistory() []models.HistoricalBar {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	bars := make([]models.HistoricalBar, 0, HistoryDays+1)
	price := startPrice
	for i := HistoryDays; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)

		change := (p.rng.Float64() - drift) * 2
		price = price * (1 + change/100)

		bar := models.HistoricalBar{
			Date:   date.Format("2006-01-02"),
			Open:   price * (1 - p.rng.Float64()*0.01),
			High:   price * (1 + p.rng.Float64()*0.02),
			Low:    price * (1 - p.rng.Float64()*0.02),
			Close:  price,
			Volume: int64(math.Floor(p.rng.Float64()*10_000_000)) + 5_000_000,
		}
		if p.strictOHLC {
			bar.High = math.Max(bar.High, math.Max(bar.Open, bar.Close))
			bar.Low = math.Min(bar.Low, math.Min(bar.Open, bar.Close))
		}
		bars = append(bars, bar)
	}
	return bars
}
