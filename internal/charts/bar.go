package charts

import (
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "pageviews/internal/errors"
)

// Bar chart labels and size.
const (
	BarTitle       = "Average Daily Page Views for Each Month Grouped by Year"
	BarXLabel      = "Years"
	BarYLabel      = "Average Page Views"
	BarLegendTitle = "Months"

	barFigWidth  = 10 * vg.Inch
	barFigHeight = 6 * vg.Inch
)

// BarFigure is the rendered grouped bar chart and the table behind it.
type BarFigure struct {
	Plot  *plot.Plot
	Table *MonthlyTable
}

// Title returns the chart title.
func (f *BarFigure) Title() string { return f.Plot.Title.Text }

// WritePNG renders the plot as a 10x6 inch PNG.
func (f *BarFigure) WritePNG(w io.Writer) error {
	wt, err := f.Plot.WriterTo(barFigWidth, barFigHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// BuildBarPlot renders table as one bar cluster per year with one bar per
// month in calendar order. Cells without data are drawn as zero-height bars.
func BuildBarPlot(table *MonthlyTable) (*BarFigure, error) {
	if table == nil || table.Empty() {
		return nil, apperrors.NewRenderError("bar plot needs at least one monthly mean", nil)
	}

	p := plot.New()
	p.Title.Text = BarTitle
	p.X.Label.Text = BarXLabel
	p.Y.Label.Text = BarYLabel

	p.Legend.Top = true
	p.Legend.Add(BarLegendTitle)

	width := barWidth(len(table.Years), len(table.Months))
	names := table.Columns()
	for mi := range table.Months {
		values := make(plotter.Values, len(table.Years))
		for yi := range table.Years {
			v := table.Means[yi][mi]
			if math.IsNaN(v) {
				v = 0
			}
			values[yi] = v
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = paletteColor(mi)
		bars.Offset = vg.Length(float64(mi)-float64(len(table.Months)-1)/2) * width

		p.Add(bars)
		p.Legend.Add(names[mi], bars)
	}

	years := make([]string, len(table.Years))
	for i, y := range table.Years {
		years[i] = strconv.Itoa(y)
	}
	p.NominalX(years...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return &BarFigure{Plot: p, Table: table}, nil
}

// barWidth spreads the bars of all clusters over roughly 80% of the plot
// width, capped so a sparse table does not produce slabs.
func barWidth(years, months int) vg.Length {
	const maxWidth = vg.Inch / 2
	n := years * months
	if n == 0 {
		return maxWidth
	}
	w := (barFigWidth * 8 / 10) * 8 / 10 / vg.Length(n)
	if w > maxWidth {
		return maxWidth
	}
	return w
}
