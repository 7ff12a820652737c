package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bobmcallan/quantdash/internal/pages"
	"github.com/bobmcallan/quantdash/internal/routes"
	"github.com/bobmcallan/quantdash/internal/view"
)

// ErrNotSignedIn is returned when a guarded page is requested without a session.
var ErrNotSignedIn = errors.New("not signed in: run `quantdash login`")

// menu lists the navigable pages offered by an interactive open.
var menu = []struct {
	Label string
	Path  string
}{
	{"Dashboard", "/dashboard"},
	{"Market Data", "/market-data"},
	{"Portfolio", "/portfolio"},
	{"Portfolio Analysis", "/portfolio/1"},
	{"Optimization", "/optimization"},
	{"Backtesting", "/backtesting"},
	{"Machine Learning", "/machine-learning"},
}

// navigate resolves path through the route guard and prints the page.
func (c *CLI) navigate(cmd *cobra.Command, path string, p pages.Params) error {
	authed := c.app.Session.IsAuthenticated()
	res, err := routes.Follow(path, authed)
	if err != nil {
		return err
	}
	if res.Page == routes.PageLogin && routes.Resolve(path, authed).Page != routes.PageLogin {
		return ErrNotSignedIn
	}

	out, err := c.renderer().Render(cmd.Context(), res, p)
	if err != nil {
		return err
	}
	c.printf("%s\n", out)
	return nil
}

func (c *CLI) requireSession() error {
	if !c.app.Session.IsAuthenticated() {
		return ErrNotSignedIn
	}
	return nil
}

func validateRange(r string) error {
	if !pages.ValidTimeRange(r) {
		return fmt.Errorf("invalid range %q (choose from %s)", r, strings.Join(pages.TimeRanges, ", "))
	}
	return nil
}

func newOpenCmd(c *CLI) *cobra.Command {
	var p pages.Params
	cmd := &cobra.Command{
		Use:   "open [PATH]",
		Short: "Open a dashboard page by path, e.g. /portfolio/1",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRange(p.TimeRange); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				picked, err := pickPage()
				if err != nil {
					return err
				}
				path = picked
			}
			return c.navigate(cmd, path, p)
		},
	}
	cmd.Flags().StringVar(&p.TimeRange, "range", pages.DefaultTimeRange, "Market summary time range")
	cmd.Flags().StringVar(&p.Symbol, "symbol", "", "Symbol for the market data page")
	return cmd
}

func pickPage() (string, error) {
	labels := make([]string, len(menu))
	for i, m := range menu {
		labels[i] = m.Label
	}
	var choice int
	if err := survey.AskOne(&survey.Select{
		Message: "Open page:",
		Options: labels,
	}, &choice); err != nil {
		return "", err
	}
	return menu[choice].Path, nil
}

func newDashboardCmd(c *CLI) *cobra.Command {
	var timeRange, chartPath string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the market overview, portfolio headline and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRange(timeRange); err != nil {
				return err
			}
			if err := c.navigate(cmd, routes.DashboardPath, pages.Params{TimeRange: timeRange}); err != nil {
				return err
			}
			if chartPath != "" {
				return c.writePNG(chartPath, pages.RenderIndicesChart)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&timeRange, "range", pages.DefaultTimeRange, "Time range: "+strings.Join(pages.TimeRanges, ", "))
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also write the market indices chart PNG to this file")
	return cmd
}

func newStockCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:     "stock SYMBOL",
		Aliases: []string{"market"},
		Short:   "Show the quote and fundamentals for a symbol",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.navigate(cmd, "/market-data", pages.Params{Symbol: args[0]})
		},
	}
}

func newHistoryCmd(c *CLI) *cobra.Command {
	var (
		chartPath string
		sma       int
		tail      int
		period    string
		interval  string
	)
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show recent daily bars or write a price chart PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			symbol := args[0]

			if chartPath != "" {
				return c.writeChart(cmd, symbol, chartPath, sma, period, interval)
			}

			bars, err := c.app.Queries.HistoricalData(cmd.Context(), symbol, period, interval)
			if err != nil {
				return fmt.Errorf("historical data: %w", err)
			}
			if tail > 0 && len(bars) > tail {
				bars = bars[len(bars)-tail:]
			}
			rows := make([][2]string, len(bars))
			for i, b := range bars {
				rows[i] = [2]string{b.Date, fmt.Sprintf("O %.2f  H %.2f  L %.2f  C %.2f  V %d", b.Open, b.High, b.Low, b.Close, b.Volume)}
			}
			c.printf("%s\n", view.KeyValueTable(symbol+" Daily Bars", [2]string{"Date", "OHLCV"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write a PNG line chart to this file")
	cmd.Flags().IntVar(&sma, "sma", 0, "Overlay a simple moving average of this period")
	cmd.Flags().IntVar(&tail, "tail", 10, "Number of most recent bars to list")
	cmd.Flags().StringVar(&period, "period", "1y", "History period")
	cmd.Flags().StringVar(&interval, "interval", "1d", "Bar interval")
	return cmd
}

func (c *CLI) writeChart(cmd *cobra.Command, symbol, path string, sma int, period, interval string) error {
	bars, err := c.app.Queries.HistoricalData(cmd.Context(), symbol, period, interval)
	if err != nil {
		return fmt.Errorf("historical data: %w", err)
	}
	data := view.HistoryChartData(symbol, bars, sma)
	return c.writePNG(path, func(w io.Writer) error {
		return view.RenderLineChart(w, data, view.LineOptions{}, view.DefaultChartWidth, view.DefaultChartHeight)
	})
}

// writePNG renders into a temp file beside path and renames it into place.
func (c *CLI) writePNG(path string, render func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".chart-*")
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	tmp := f.Name()

	if err := render(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write chart: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write chart: %w", err)
	}

	c.printf("Wrote %s\n", path)
	return nil
}

func newPortfolioCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio [ID]",
		Short: "Show the portfolio summary, or the analysis for a portfolio id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.navigate(cmd, "/portfolio", pages.Params{})
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("portfolio id must be an integer, got %q", args[0])
			}
			return c.navigate(cmd, "/portfolio/"+args[0], pages.Params{})
		},
	}
}

func newRecommendationsCmd(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Show buy, sell and hold recommendations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			out, err := c.renderer().Recommendations(cmd.Context())
			if err != nil {
				return err
			}
			c.printf("%s\n", out)
			return nil
		},
	}
}
