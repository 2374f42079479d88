// Package chart renders a coverage report as a self-contained HTML bar
// chart.
package chart

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// A Net is one bar in the chart: a coverage net and its percentage in
// [0,100].
type Net struct {
	Name    string
	Percent float64
}

// Render writes the chart for the given nets to w.
func Render(w io.Writer, title string, nets []Net) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "coverage per net (%)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, len(nets))
	data := make([]opts.BarData, len(nets))
	for i, n := range nets {
		names[i] = n.Name
		data[i] = opts.BarData{Value: n.Percent}
	}
	bar.SetXAxis(names).AddSeries("coverage", data)
	return bar.Render(w)
}
