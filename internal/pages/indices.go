package pages

import (
	"io"
	"strconv"

	"github.com/bobmcallan/quantdash/internal/view"
)

// MarketIndices is the monthly index series plotted on the dashboard.
func MarketIndices() view.ChartData {
	return view.ChartData{
		Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep"},
		Datasets: []view.Dataset{
			{
				Label:       "S&P 500",
				Data:        []float64{4200, 4250, 4100, 4300, 4450, 4400, 4380, 4500, 4550},
				BorderColor: "#3f51b5",
			},
			{
				Label:       "NASDAQ",
				Data:        []float64{14200, 14000, 13800, 14100, 14500, 14700, 14600, 15000, 15200},
				BorderColor: "#f50057",
			},
		},
	}
}

// RenderIndicesChart writes the market indices line chart as a PNG.
func RenderIndicesChart(w io.Writer) error {
	return view.RenderLineChart(w, MarketIndices(), view.LineOptions{}, view.DefaultChartWidth, view.DefaultChartHeight)
}

// indicesTable summarises each index series from its first to its last point.
func indicesTable() string {
	data := MarketIndices()
	from, to := data.Labels[0], data.Labels[len(data.Labels)-1]
	rows := make([][2]string, 0, len(data.Datasets))
	for _, ds := range data.Datasets {
		first, last := ds.Data[0], ds.Data[len(ds.Data)-1]
		rows = append(rows, [2]string{
			ds.Label,
			strconv.FormatFloat(first, 'f', 0, 64) + " → " + strconv.FormatFloat(last, 'f', 0, 64) +
				" (" + view.FormatChange(roundTo((last/first-1)*100, 2), view.ChangePercentage) + ")",
		})
	}
	return view.KeyValueTable("Market Indices ("+from+"-"+to+")", [2]string{"Index", "Trend"}, rows)
}
