// Package pages composes view components into the dashboard's screens.
// Pages read data only through the query cache.
package pages

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/bobmcallan/quantdash/internal/analytics"
	"github.com/bobmcallan/quantdash/internal/common"
	"github.com/bobmcallan/quantdash/internal/query"
	"github.com/bobmcallan/quantdash/internal/routes"
	"github.com/bobmcallan/quantdash/internal/view"
)

// Time ranges offered by the dashboard.
var TimeRanges = []string{"1D", "1W", "1M", "3M", "1Y"}

// DefaultTimeRange is selected when none is given.
const DefaultTimeRange = "1M"

// ValidTimeRange reports whether r is one of TimeRanges.
func ValidTimeRange(r string) bool {
	for _, t := range TimeRanges {
		if t == r {
			return true
		}
	}
	return false
}

// Params carries page inputs that are not part of the path.
type Params struct {
	TimeRange string
	Symbol    string
	Period    string
	Interval  string
}

// Renderer draws pages to strings.
type Renderer struct {
	data     *query.Dashboard
	currency string
	style    string
	width    int
	logger   *common.Logger
}

// Option configures the renderer
type Option func(*Renderer)

// WithCurrency sets the display currency code.
func WithCurrency(code string) Option {
	return func(r *Renderer) {
		r.currency = code
	}
}

// WithMarkdownStyle sets the glamour style for markdown sections ("dark", "light", "notty").
func WithMarkdownStyle(style string) Option {
	return func(r *Renderer) {
		r.style = style
	}
}

// WithWidth sets the wrap width.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a renderer over the dashboard queries.
func NewRenderer(data *query.Dashboard, opts ...Option) *Renderer {
	r := &Renderer{
		data:     data,
		currency: "USD",
		style:    "dark",
		width:    100,
		logger:   common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws the page a resolution points at.
func (r *Renderer) Render(ctx context.Context, res routes.Resolution, p Params) (string, error) {
	switch res.Page {
	case routes.PageDashboard:
		return r.Dashboard(ctx, p.TimeRange)
	case routes.PageMarketData:
		return r.MarketData(ctx, p.Symbol)
	case routes.PagePortfolio:
		return r.Portfolio(ctx)
	case routes.PagePortfolioDetail:
		return r.PortfolioDetail(ctx, res.Params["id"])
	case routes.PageOptimization, routes.PageBacktesting, routes.PageMachineLearning:
		return Placeholder(res.Page), nil
	case routes.PageLogin, routes.PageRegister:
		return view.Section("Sign in with `quantdash " + string(res.Page) + "`"), nil
	default:
		return NotFound(res.Path), nil
	}
}

// Dashboard shows index cards, the portfolio headline, movers and recommendations.
func (r *Renderer) Dashboard(ctx context.Context, timeRange string) (string, error) {
	if timeRange == "" {
		timeRange = DefaultTimeRange
	}
	summary, err := r.data.MarketSummary(ctx, timeRange)
	if err != nil {
		return "", fmt.Errorf("market summary: %w", err)
	}
	portfolio, err := r.data.PortfolioSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("portfolio summary: %w", err)
	}
	recs, err := r.data.Recommendations(ctx)
	if err != nil {
		return "", fmt.Errorf("recommendations: %w", err)
	}

	var b strings.Builder
	b.WriteString(view.Section("Market Overview (" + timeRange + ")"))
	b.WriteString("\n")

	// Index changePercent is a fraction; cards show percent.
	cards := make([]view.MetricCard, len(summary.Indices))
	for i, idx := range summary.Indices {
		cards[i] = view.MetricCard{
			Title:      idx.Name,
			Value:      strconv.FormatFloat(idx.Value, 'f', 2, 64),
			Change:     roundTo(idx.ChangePercent*100, 2),
			ChangeType: view.ChangePercentage,
		}
	}
	b.WriteString(view.CardRow(cards...))
	b.WriteString("\n")
	b.WriteString(indicesTable())
	b.WriteString("\n")

	b.WriteString(view.Section("Portfolio Summary"))
	b.WriteString("\n")
	b.WriteString(view.CardRow(
		view.MetricCard{
			Title:      "Total Value",
			Value:      view.FormatCurrency(portfolio.TotalValue, r.currency),
			Change:     portfolio.DayChangePercent,
			ChangeType: view.ChangePercentage,
		},
		view.MetricCard{
			Title:      "Day Change",
			Value:      view.FormatCurrency(portfolio.DayChange, r.currency),
			Change:     portfolio.DayChange,
			ChangeType: view.ChangeAbsolute,
		},
	))
	b.WriteString("\n")

	sectorRows := make([][2]string, len(summary.Sectors))
	for i, s := range summary.Sectors {
		sectorRows[i] = [2]string{s.Name, view.FormatChange(s.Performance, view.ChangePercentage)}
	}
	b.WriteString(view.KeyValueTable("Sector Performance", [2]string{"Sector", "Performance"}, sectorRows))
	b.WriteString("\n")

	b.WriteString(view.MoversTable("Top Gainers", summary.TopGainers))
	b.WriteString("\n")
	b.WriteString(view.MoversTable("Top Losers", summary.TopLosers))
	b.WriteString("\n")

	md, err := view.RecommendationList(recs, r.style, r.width)
	if err != nil {
		return "", err
	}
	b.WriteString(md)
	return b.String(), nil
}

// MarketData shows the quote for symbol and a summary of its price history.
func (r *Renderer) MarketData(ctx context.Context, symbol string) (string, error) {
	if symbol == "" {
		symbol = "AAPL"
	}
	q, err := r.data.StockData(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("stock data: %w", err)
	}
	bars, err := r.data.HistoricalData(ctx, symbol, "1y", "1d")
	if err != nil {
		return "", fmt.Errorf("historical data: %w", err)
	}

	var b strings.Builder
	b.WriteString(view.Section(q.Symbol + " · " + q.Name))
	b.WriteString("\n")
	b.WriteString(view.CardRow(
		view.MetricCard{
			Title:      "Price",
			Value:      view.FormatCurrency(q.Price, r.currency),
			Change:     q.ChangePercent,
			ChangeType: view.ChangePercentage,
		},
		view.MetricCard{
			Title:      "Change",
			Value:      view.FormatCurrency(q.Change, r.currency),
			Change:     q.Change,
			ChangeType: view.ChangeAbsolute,
		},
	))
	b.WriteString("\n")

	rows := [][2]string{
		{"Open", fmtOptional(q.Open)},
		{"High", fmtOptional(q.High)},
		{"Low", fmtOptional(q.Low)},
		{"Volume", fmtOptionalInt(q.Volume)},
		{"Market Cap", fmtOptional(q.MarketCap)},
		{"P/E", fmtOptional(q.PE)},
		{"Dividend", fmtOptional(q.Dividend)},
		{"EPS", fmtOptional(q.EPS)},
	}
	b.WriteString(view.KeyValueTable("Fundamentals", [2]string{"Field", "Value"}, rows))
	b.WriteString("\n")

	if len(bars) > 0 {
		first, last := bars[0], bars[len(bars)-1]
		change := (last.Close/first.Close - 1) * 100
		hist := [][2]string{
			{"From", first.Date},
			{"To", last.Date},
			{"Bars", strconv.Itoa(len(bars))},
			{"Last Close", strconv.FormatFloat(last.Close, 'f', 2, 64)},
			{"Period Change", view.FormatChange(roundTo(change, 2), view.ChangePercentage)},
		}
		b.WriteString(view.KeyValueTable("Price History", [2]string{"", ""}, hist))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// HistoryChart writes the price chart for symbol as a PNG, with an optional SMA overlay.
func (r *Renderer) HistoryChart(ctx context.Context, w io.Writer, symbol string, smaPeriod int) error {
	bars, err := r.data.HistoricalData(ctx, symbol, "1y", "1d")
	if err != nil {
		return fmt.Errorf("historical data: %w", err)
	}
	data := view.HistoryChartData(symbol, bars, smaPeriod)
	return view.RenderLineChart(w, data, view.LineOptions{}, view.DefaultChartWidth, view.DefaultChartHeight)
}

// Portfolio shows the holdings summary.
func (r *Renderer) Portfolio(ctx context.Context) (string, error) {
	p, err := r.data.PortfolioSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("portfolio summary: %w", err)
	}

	var b strings.Builder
	b.WriteString(view.Section("Portfolio"))
	b.WriteString("\n")
	b.WriteString(view.MetricCard{
		Title:      "Total Value",
		Value:      view.FormatCurrency(p.TotalValue, r.currency),
		Change:     p.DayChangePercent,
		ChangeType: view.ChangePercentage,
	}.Render())
	b.WriteString("\n")

	alloc := make([][2]string, len(p.Allocation))
	for i, a := range p.Allocation {
		alloc[i] = [2]string{a.Category, fmt.Sprintf("%s (%s%%)", view.FormatCurrency(a.Value, r.currency), strconv.FormatFloat(a.Percentage, 'f', -1, 64))}
	}
	b.WriteString(view.KeyValueTable("Asset Allocation", [2]string{"Class", "Value"}, alloc))
	b.WriteString("\n")
	b.WriteString(view.Section("Positions"))
	b.WriteString("\n")
	b.WriteString(view.PositionsTable(p.Positions, r.currency))
	b.WriteString("\n")
	return b.String(), nil
}

// PortfolioDetail shows the analysis for the portfolio id in the path.
func (r *Renderer) PortfolioDetail(ctx context.Context, rawID string) (string, error) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return "", fmt.Errorf("invalid portfolio id %q", rawID)
	}
	a, err := r.data.PortfolioAnalysis(ctx, id)
	if err != nil {
		return "", fmt.Errorf("portfolio analysis: %w", err)
	}
	if err := analytics.ValidateCorrelation(a.CorrelationMatrix); err != nil {
		r.logger.Warn().Err(err).Int("portfolio_id", id).Msg("Portfolio analysis has an invalid correlation matrix")
	}

	var b strings.Builder
	b.WriteString(view.Section(fmt.Sprintf("Portfolio %d Analysis", id)))
	b.WriteString("\n")

	perf := a.Performance
	b.WriteString(view.CardRow(
		view.MetricCard{Title: "Total Return", Value: pct(perf.TotalReturn), Change: perf.TotalReturn, ChangeType: view.ChangePercentage},
		view.MetricCard{Title: "Annualized", Value: pct(perf.AnnualizedReturn), Change: perf.AnnualizedReturn, ChangeType: view.ChangePercentage},
		view.MetricCard{Title: "Max Drawdown", Value: pct(perf.MaxDrawdown), Change: perf.MaxDrawdown, ChangeType: view.ChangePercentage},
	))
	b.WriteString("\n")
	b.WriteString(view.KeyValueTable("Risk", [2]string{"Metric", "Value"}, [][2]string{
		{"Sharpe Ratio", num(perf.SharpeRatio)},
		{"Volatility", pct(perf.Volatility)},
		{"Alpha", num(perf.Alpha)},
		{"Beta", num(perf.Beta)},
	}))
	b.WriteString("\n")

	sectors := make([][2]string, len(a.RiskExposure.SectorExposure))
	for i, s := range a.RiskExposure.SectorExposure {
		sectors[i] = [2]string{s.Sector, pct(s.Exposure)}
	}
	b.WriteString(view.KeyValueTable("Sector Exposure", [2]string{"Sector", "Exposure"}, sectors))
	b.WriteString("\n")

	regions := make([][2]string, len(a.RiskExposure.GeographicExposure))
	for i, g := range a.RiskExposure.GeographicExposure {
		regions[i] = [2]string{g.Region, pct(g.Exposure)}
	}
	b.WriteString(view.KeyValueTable("Geographic Exposure", [2]string{"Region", "Exposure"}, regions))
	b.WriteString("\n")

	factors := make([][2]string, len(a.RiskExposure.FactorExposure))
	for i, f := range a.RiskExposure.FactorExposure {
		factors[i] = [2]string{f.Factor, num(f.Exposure)}
	}
	b.WriteString(view.KeyValueTable("Factor Exposure", [2]string{"Factor", "Loading"}, factors))
	b.WriteString("\n")

	stress := make([][2]string, len(a.StressTests))
	for i, s := range a.StressTests {
		stress[i] = [2]string{s.Scenario, view.FormatChange(s.Impact, view.ChangePercentage)}
	}
	b.WriteString(view.KeyValueTable("Stress Tests", [2]string{"Scenario", "Impact"}, stress))
	b.WriteString("\n")
	return b.String(), nil
}

// Recommendations shows the buy, sell and hold lists.
func (r *Renderer) Recommendations(ctx context.Context) (string, error) {
	recs, err := r.data.Recommendations(ctx)
	if err != nil {
		return "", fmt.Errorf("recommendations: %w", err)
	}
	return view.RecommendationList(recs, r.style, r.width)
}

var placeholderTitles = map[routes.Page]string{
	routes.PageOptimization:    "Portfolio Optimization",
	routes.PageBacktesting:     "Strategy Backtesting",
	routes.PageMachineLearning: "Machine Learning Models",
}

// Placeholder renders a page that is not built yet.
func Placeholder(page routes.Page) string {
	title, ok := placeholderTitles[page]
	if !ok {
		title = string(page)
	}
	return view.Section(title) + "\nThis section is coming soon.\n"
}

// NotFound renders the not-found page.
func NotFound(path string) string {
	return view.Section("404 - Page Not Found") + "\nNothing lives at " + path + ".\n"
}

func fmtOptional(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtOptionalInt(v int64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatInt(v, 10)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
