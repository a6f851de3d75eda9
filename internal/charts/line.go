package charts

import (
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pageviews/internal/cleaning"
	"pageviews/internal/dataset"
)

// Line plot labels and size in pixels.
const (
	LineTitle  = "Daily freeCodeCamp Forum Page Views 5/2016-12/2019"
	LineXLabel = "Date"
	LineYLabel = "Page Views"

	lineWidth  = 1000
	lineHeight = 600
)

// LineFigure is the rendered time-series line plot.
type LineFigure struct {
	Chart  chart.Chart
	Dates  []time.Time // plotted x values, ascending
	Values []float64   // plotted y values, aligned with Dates
}

// Title returns the chart title.
func (f *LineFigure) Title() string { return f.Chart.Title }

// WritePNG renders the chart as PNG.
func (f *LineFigure) WritePNG(w io.Writer) error {
	return f.Chart.Render(chart.PNG, w)
}

// BuildLinePlot draws one point per cleaned observation in date order,
// connected by a blue line.
func BuildLinePlot(cleaned *cleaning.CleanedSeries) *LineFigure {
	series := cleaned.Series()
	if !series.IsSorted() {
		series = &dataset.Series{Source: series.Source, Observations: series.SortedByDate()}
	}
	dates, values := series.Dates(), series.Values()

	xs, ys := dates, values
	// go-chart needs two distinct x values to compute a range
	if len(xs) == 1 {
		xs = []time.Time{dates[0], dates[0].Add(24 * time.Hour)}
		ys = []float64{values[0], values[0]}
	}

	c := chart.Chart{
		Title:  LineTitle,
		Width:  lineWidth,
		Height: lineHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           LineXLabel,
			ValueFormatter: chart.TimeDateValueFormatter,
			Style: chart.Style{
				TextRotationDegrees: 45,
			},
		},
		YAxis: chart.YAxis{
			Name: LineYLabel,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    LineYLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 1,
				},
			},
		},
	}

	if r := flatRange(ys); r != nil {
		c.YAxis.Range = r
	}

	return &LineFigure{Chart: c, Dates: dates, Values: values}
}

// flatRange returns a padded y range when every value is equal, which
// go-chart cannot scale on its own. Otherwise the axis auto-ranges.
func flatRange(values []float64) *chart.ContinuousRange {
	if len(values) == 0 {
		return nil
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return nil
		}
	}
	return &chart.ContinuousRange{Min: values[0] - 1, Max: values[0] + 1}
}
