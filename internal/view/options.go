package view

// Chart options mirror the chart.js option tree the dashboard was designed
// around. Every leaf is a pointer: nil means "not set", so a caller can
// override a single leaf without disturbing its siblings.

// LegendOptions controls the series legend.
type LegendOptions struct {
	Display  *bool   `json:"display,omitempty"`
	Position *string `json:"position,omitempty"` // top, bottom, left, right
}

// InteractionOptions controls tooltip and hover behaviour.
type InteractionOptions struct {
	Mode      *string `json:"mode,omitempty"`
	Intersect *bool   `json:"intersect,omitempty"`
}

// PluginOptions groups legend and tooltip.
type PluginOptions struct {
	Legend  LegendOptions      `json:"legend"`
	Tooltip InteractionOptions `json:"tooltip"`
}

// GridOptions controls the grid lines of one axis.
type GridOptions struct {
	Display    *bool   `json:"display,omitempty"`
	DrawBorder *bool   `json:"drawBorder,omitempty"`
	Color      *string `json:"color,omitempty"`
}

// TickOptions controls axis ticks.
type TickOptions struct {
	MaxTicksLimit *int `json:"maxTicksLimit,omitempty"`
}

// AxisOptions configures one axis.
type AxisOptions struct {
	BeginAtZero *bool       `json:"beginAtZero,omitempty"`
	Grid        GridOptions `json:"grid"`
	Ticks       TickOptions `json:"ticks"`
}

// ScaleOptions configures both axes.
type ScaleOptions struct {
	X AxisOptions `json:"x"`
	Y AxisOptions `json:"y"`
}

// LineElementOptions controls line drawing.
type LineElementOptions struct {
	Tension *float64 `json:"tension,omitempty"`
}

// PointElementOptions controls data point markers.
type PointElementOptions struct {
	Radius      *float64 `json:"radius,omitempty"`
	HitRadius   *float64 `json:"hitRadius,omitempty"`
	HoverRadius *float64 `json:"hoverRadius,omitempty"`
}

// BarElementOptions controls bar drawing.
type BarElementOptions struct {
	BorderWidth  *float64 `json:"borderWidth,omitempty"`
	BorderRadius *float64 `json:"borderRadius,omitempty"`
}

// ElementOptions groups element defaults.
type ElementOptions struct {
	Line  LineElementOptions  `json:"line"`
	Point PointElementOptions `json:"point"`
	Bar   BarElementOptions   `json:"bar"`
}

// LineOptions configures a line chart.
type LineOptions struct {
	Responsive          *bool              `json:"responsive,omitempty"`
	MaintainAspectRatio *bool              `json:"maintainAspectRatio,omitempty"`
	Plugins             PluginOptions      `json:"plugins"`
	Hover               InteractionOptions `json:"hover"`
	Scales              ScaleOptions       `json:"scales"`
	Elements            ElementOptions     `json:"elements"`
}

// BarOptions configures a bar chart.
type BarOptions struct {
	Responsive          *bool          `json:"responsive,omitempty"`
	MaintainAspectRatio *bool          `json:"maintainAspectRatio,omitempty"`
	Plugins             PluginOptions  `json:"plugins"`
	Scales              ScaleOptions   `json:"scales"`
	Elements            ElementOptions `json:"elements"`
}

// PieOptions configures a pie or doughnut chart.
type PieOptions struct {
	Responsive          *bool         `json:"responsive,omitempty"`
	MaintainAspectRatio *bool         `json:"maintainAspectRatio,omitempty"`
	Plugins             PluginOptions `json:"plugins"`
	Cutout              *float64      `json:"cutout,omitempty"` // 0 pie, >0 doughnut hole as a fraction
}

// Ptr returns a pointer to v, for building option literals.
func Ptr[T any](v T) *T {
	return &v
}

// pick returns override when set, otherwise base.
func pick[T any](base, override *T) *T {
	if override != nil {
		return override
	}
	return base
}

// DefaultLineOptions returns the dashboard's line chart defaults.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		Responsive:          Ptr(true),
		MaintainAspectRatio: Ptr(false),
		Plugins: PluginOptions{
			Legend:  LegendOptions{Display: Ptr(true), Position: Ptr("top")},
			Tooltip: InteractionOptions{Mode: Ptr("index"), Intersect: Ptr(false)},
		},
		Hover: InteractionOptions{Mode: Ptr("nearest"), Intersect: Ptr(false)},
		Scales: ScaleOptions{
			Y: AxisOptions{
				BeginAtZero: Ptr(false),
				Grid: GridOptions{
					Display:    Ptr(true),
					DrawBorder: Ptr(false),
					Color:      Ptr("rgba(200, 200, 200, 0.15)"),
				},
				Ticks: TickOptions{MaxTicksLimit: Ptr(5)},
			},
			X: AxisOptions{
				Grid: GridOptions{
					Display:    Ptr(false),
					DrawBorder: Ptr(false),
				},
			},
		},
		Elements: ElementOptions{
			Line: LineElementOptions{Tension: Ptr(0.4)},
			Point: PointElementOptions{
				Radius:      Ptr(0.0),
				HitRadius:   Ptr(10.0),
				HoverRadius: Ptr(4.0),
			},
		},
	}
}

// DefaultBarOptions returns the dashboard's bar chart defaults.
func DefaultBarOptions() BarOptions {
	line := DefaultLineOptions()
	return BarOptions{
		Responsive:          line.Responsive,
		MaintainAspectRatio: line.MaintainAspectRatio,
		Plugins:             line.Plugins,
		Scales:              line.Scales,
		Elements: ElementOptions{
			Bar: BarElementOptions{BorderWidth: Ptr(0.0), BorderRadius: Ptr(4.0)},
		},
	}
}

// DefaultPieOptions returns the dashboard's pie chart defaults.
func DefaultPieOptions() PieOptions {
	return PieOptions{
		Responsive:          Ptr(true),
		MaintainAspectRatio: Ptr(false),
		Plugins: PluginOptions{
			Legend:  LegendOptions{Display: Ptr(true), Position: Ptr("right")},
			Tooltip: InteractionOptions{Mode: Ptr("nearest"), Intersect: Ptr(true)},
		},
		Cutout: Ptr(0.0),
	}
}

func mergeLegend(base, o LegendOptions) LegendOptions {
	return LegendOptions{
		Display:  pick(base.Display, o.Display),
		Position: pick(base.Position, o.Position),
	}
}

func mergeInteraction(base, o InteractionOptions) InteractionOptions {
	return InteractionOptions{
		Mode:      pick(base.Mode, o.Mode),
		Intersect: pick(base.Intersect, o.Intersect),
	}
}

func mergePlugins(base, o PluginOptions) PluginOptions {
	return PluginOptions{
		Legend:  mergeLegend(base.Legend, o.Legend),
		Tooltip: mergeInteraction(base.Tooltip, o.Tooltip),
	}
}

func mergeAxis(base, o AxisOptions) AxisOptions {
	return AxisOptions{
		BeginAtZero: pick(base.BeginAtZero, o.BeginAtZero),
		Grid: GridOptions{
			Display:    pick(base.Grid.Display, o.Grid.Display),
			DrawBorder: pick(base.Grid.DrawBorder, o.Grid.DrawBorder),
			Color:      pick(base.Grid.Color, o.Grid.Color),
		},
		Ticks: TickOptions{
			MaxTicksLimit: pick(base.Ticks.MaxTicksLimit, o.Ticks.MaxTicksLimit),
		},
	}
}

func mergeScales(base, o ScaleOptions) ScaleOptions {
	return ScaleOptions{
		X: mergeAxis(base.X, o.X),
		Y: mergeAxis(base.Y, o.Y),
	}
}

func mergeElements(base, o ElementOptions) ElementOptions {
	return ElementOptions{
		Line: LineElementOptions{Tension: pick(base.Line.Tension, o.Line.Tension)},
		Point: PointElementOptions{
			Radius:      pick(base.Point.Radius, o.Point.Radius),
			HitRadius:   pick(base.Point.HitRadius, o.Point.HitRadius),
			HoverRadius: pick(base.Point.HoverRadius, o.Point.HoverRadius),
		},
		Bar: BarElementOptions{
			BorderWidth:  pick(base.Bar.BorderWidth, o.Bar.BorderWidth),
			BorderRadius: pick(base.Bar.BorderRadius, o.Bar.BorderRadius),
		},
	}
}

// MergeLineOptions overlays caller options on base leaf by leaf.
// Leaves the caller leaves nil keep their base value.
func MergeLineOptions(base, caller LineOptions) LineOptions {
	return LineOptions{
		Responsive:          pick(base.Responsive, caller.Responsive),
		MaintainAspectRatio: pick(base.MaintainAspectRatio, caller.MaintainAspectRatio),
		Plugins:             mergePlugins(base.Plugins, caller.Plugins),
		Hover:               mergeInteraction(base.Hover, caller.Hover),
		Scales:              mergeScales(base.Scales, caller.Scales),
		Elements:            mergeElements(base.Elements, caller.Elements),
	}
}

// MergeBarOptions overlays caller options on base leaf by leaf.
func MergeBarOptions(base, caller BarOptions) BarOptions {
	return BarOptions{
		Responsive:          pick(base.Responsive, caller.Responsive),
		MaintainAspectRatio: pick(base.MaintainAspectRatio, caller.MaintainAspectRatio),
		Plugins:             mergePlugins(base.Plugins, caller.Plugins),
		Scales:              mergeScales(base.Scales, caller.Scales),
		Elements:            mergeElements(base.Elements, caller.Elements),
	}
}

// MergePieOptions overlays caller options on base leaf by leaf.
func MergePieOptions(base, caller PieOptions) PieOptions {
	return PieOptions{
		Responsive:          pick(base.Responsive, caller.Responsive),
		MaintainAspectRatio: pick(base.MaintainAspectRatio, caller.MaintainAspectRatio),
		Plugins:             mergePlugins(base.Plugins, caller.Plugins),
		Cutout:              pick(base.Cutout, caller.Cutout),
	}
}

// Dataset is one series of a line or bar chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderWidth     *float64  `json:"borderWidth,omitempty"`
	PointRadius     *float64  `json:"pointRadius,omitempty"`
	Tension         *float64  `json:"tension,omitempty"`
}

// ChartData is labelled series data.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ApplyDatasetDefaults fills unset dataset fields: background is the border
// colour at alpha 0x20, border width 2, point radius 0, tension 0.4.
// Explicitly set fields, including explicit zeros, are kept.
func ApplyDatasetDefaults(data ChartData) ChartData {
	out := ChartData{
		Labels:   data.Labels,
		Datasets: make([]Dataset, len(data.Datasets)),
	}
	for i, ds := range data.Datasets {
		if ds.BackgroundColor == "" && ds.BorderColor != "" {
			ds.BackgroundColor = ds.BorderColor + "20"
		}
		ds.BorderWidth = pick(Ptr(2.0), ds.BorderWidth)
		ds.PointRadius = pick(Ptr(0.0), ds.PointRadius)
		ds.Tension = pick(Ptr(0.4), ds.Tension)
		out.Datasets[i] = ds
	}
	return out
}
