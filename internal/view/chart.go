package view

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/quantdash/internal/models"
)

// Default raster size for rendered charts.
const (
	DefaultChartWidth  = 900
	DefaultChartHeight = 400
)

// palette is used for datasets that name no colour.
var palette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#06B6D4"}

// parseColor accepts #rgb, #rrggbb, #rrggbbaa and rgb()/rgba() forms.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && len(s) == 9 {
		a, err := strconv.ParseUint(s[7:9], 16, 8)
		if err != nil {
			a = 255
		}
		return drawing.ColorFromHex(s[1:7]).WithAlpha(uint8(a))
	}
	return drawing.ParseColor(s)
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// HistoryChartData builds a close-price dataset from bars, plus a simple
// moving average overlay when smaPeriod > 1.
func HistoryChartData(symbol string, bars []models.HistoricalBar, smaPeriod int) ChartData {
	labels := make([]string, len(bars))
	for i, b := range bars {
		labels[i] = b.Date
	}
	closes := models.Closes(bars)

	data := ChartData{
		Labels: labels,
		Datasets: []Dataset{{
			Label:       symbol,
			Data:        closes,
			BorderColor: "#3B82F6",
		}},
	}
	if smaPeriod > 1 && len(closes) > smaPeriod {
		data.Datasets = append(data.Datasets, Dataset{
			Label:       fmt.Sprintf("SMA %d", smaPeriod),
			Data:        SMA(closes, smaPeriod),
			BorderColor: "#F59E0B",
			BorderWidth: Ptr(1.5),
		})
	}
	return data
}

// SMA returns the simple moving average of in. The first period-1 values,
// where the window is incomplete, are NaN.
func SMA(in []float64, period int) []float64 {
	if period < 1 || len(in) < period {
		out := make([]float64, len(in))
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	out := talib.Sma(in, period)
	for i := 0; i < period-1 && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// xAxisValues maps labels to time values when every label is a date, else to indices.
func xAxisValues(labels []string, n int) ([]time.Time, []float64, bool) {
	times := make([]time.Time, n)
	ok := len(labels) >= n
	for i := 0; ok && i < n; i++ {
		t, err := time.Parse("2006-01-02", labels[i])
		if err != nil {
			ok = false
			break
		}
		times[i] = t
	}
	if ok {
		return times, nil, true
	}
	idx := make([]float64, n)
	for i := range idx {
		idx[i] = float64(i)
	}
	return nil, idx, false
}

// yTicks spreads at most limit ticks evenly over [lo, hi].
func yTicks(lo, hi float64, limit int) []chart.Tick {
	if limit < 2 || math.IsNaN(lo) || math.IsNaN(hi) || hi <= lo {
		return nil
	}
	ticks := make([]chart.Tick, limit)
	step := (hi - lo) / float64(limit-1)
	for i := range ticks {
		v := lo + step*float64(i)
		ticks[i] = chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 2, 64)}
	}
	return ticks
}

func seriesBounds(datasets []Dataset) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ds := range datasets {
		for _, v := range ds.Data {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// gridStyle maps grid options onto a go-chart style. Hidden when display is false.
func gridStyle(g GridOptions) chart.Style {
	if !deref(g.Display, true) {
		return chart.Style{Hidden: true}
	}
	return chart.Style{
		StrokeColor: parseColor(deref(g.Color, "rgba(200, 200, 200, 0.15)")),
		StrokeWidth: 1,
	}
}

// RenderLineChart draws data as a PNG to w. opts are merged over the defaults
// and datasets receive their defaults first.
//
// Raster output has no curve smoothing or axis border toggle, so tension and
// drawBorder are not drawn. Point radius, grid visibility and colour, the tick
// limit, begin-at-zero and legend position are.
func RenderLineChart(w io.Writer, data ChartData, opts LineOptions, width, height int) error {
	if len(data.Datasets) == 0 {
		return fmt.Errorf("line chart needs at least one dataset")
	}
	opts = MergeLineOptions(DefaultLineOptions(), opts)
	data = ApplyDatasetDefaults(data)
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	var series []chart.Series
	for i, ds := range data.Datasets {
		if len(ds.Data) < 2 {
			return fmt.Errorf("dataset %q needs at least 2 points, got %d", ds.Label, len(ds.Data))
		}
		color := ds.BorderColor
		if color == "" {
			color = palette[i%len(palette)]
		}
		radius := deref(ds.PointRadius, deref(opts.Elements.Point.Radius, 0))
		style := chart.Style{
			StrokeColor: parseColor(color),
			StrokeWidth: deref(ds.BorderWidth, 2),
		}
		if radius > 0 {
			style.DotColor = parseColor(color)
			style.DotWidth = radius
		}

		// NaN marks a gap, such as the warm-up of a moving average.
		times, idx, isTime := xAxisValues(data.Labels, len(ds.Data))
		var ts []time.Time
		var xs, ys []float64
		for j, v := range ds.Data {
			if math.IsNaN(v) {
				continue
			}
			if isTime {
				ts = append(ts, times[j])
			} else {
				xs = append(xs, idx[j])
			}
			ys = append(ys, v)
		}
		if isTime {
			series = append(series, chart.TimeSeries{Name: ds.Label, Style: style, XValues: ts, YValues: ys})
		} else {
			series = append(series, chart.ContinuousSeries{Name: ds.Label, Style: style, XValues: xs, YValues: ys})
		}
	}

	lo, hi := seriesBounds(data.Datasets)
	if deref(opts.Scales.Y.BeginAtZero, false) && lo > 0 {
		lo = 0
	}

	yAxis := chart.YAxis{
		GridMajorStyle: gridStyle(opts.Scales.Y.Grid),
		Ticks:          yTicks(lo, hi, deref(opts.Scales.Y.Ticks.MaxTicksLimit, 5)),
	}
	if deref(opts.Scales.Y.BeginAtZero, false) {
		yAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			GridMajorStyle: gridStyle(opts.Scales.X.Grid),
			TickPosition:   chart.TickPositionBetweenTicks,
		},
		YAxis:  yAxis,
		Series: series,
	}
	if labels := data.Labels; len(labels) > 0 {
		if _, _, isTime := xAxisValues(labels, len(labels)); !isTime {
			graph.XAxis.ValueFormatter = func(v interface{}) string {
				if f, ok := v.(float64); ok {
					if i := int(f); i >= 0 && i < len(labels) {
						return labels[i]
					}
				}
				return ""
			}
		} else {
			graph.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat("Jan 06")
		}
	}

	if deref(opts.Plugins.Legend.Display, true) {
		switch deref(opts.Plugins.Legend.Position, "top") {
		case "left":
			graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
		case "bottom":
			graph.Elements = []chart.Renderable{chart.LegendThin(&graph)}
		default:
			graph.Elements = []chart.Renderable{chart.Legend(&graph)}
		}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// RenderBarChart draws one bar per label as a PNG to w.
func RenderBarChart(w io.Writer, title string, labels []string, values []float64, opts BarOptions, width, height int) error {
	if len(labels) == 0 || len(labels) != len(values) {
		return fmt.Errorf("bar chart needs matching labels and values, got %d and %d", len(labels), len(values))
	}
	opts = MergeBarOptions(DefaultBarOptions(), opts)
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		color := successColorHex
		if v < 0 {
			color = errorColorHex
		}
		bars[i] = chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   parseColor(color),
				StrokeColor: parseColor(color),
				StrokeWidth: deref(opts.Elements.Bar.BorderWidth, 0),
			},
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Min(lo, 0)
	hi = math.Max(hi, 0)

	graph := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:     60,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			GridMajorStyle: gridStyle(opts.Scales.Y.Grid),
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks:          yTicks(lo, hi, deref(opts.Scales.Y.Ticks.MaxTicksLimit, 5)),
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// RenderPieChart draws slices as a PNG to w. A positive cutout renders a doughnut.
func RenderPieChart(w io.Writer, title string, labels []string, values []float64, opts PieOptions, width, height int) error {
	if len(labels) == 0 || len(labels) != len(values) {
		return fmt.Errorf("pie chart needs matching labels and values, got %d and %d", len(labels), len(values))
	}
	opts = MergePieOptions(DefaultPieOptions(), opts)
	if width <= 0 {
		width = DefaultChartHeight
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	slices := make([]chart.Value, 0, len(values))
	for i, v := range values {
		if v <= 0 {
			continue
		}
		color := parseColor(palette[i%len(palette)])
		slices = append(slices, chart.Value{
			Label: labels[i],
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}
	if len(slices) == 0 {
		return fmt.Errorf("pie chart needs at least one positive value")
	}

	var err error
	if deref(opts.Cutout, 0) > 0 {
		err = chart.DonutChart{Title: title, Width: width, Height: height, Values: slices}.Render(chart.PNG, w)
	} else {
		err = chart.PieChart{Title: title, Width: width, Height: height, Values: slices}.Render(chart.PNG, w)
	}
	if err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
