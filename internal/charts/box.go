package charts

import (
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"pageviews/internal/calendar"
	apperrors "pageviews/internal/errors"
)

// Box plot labels and canvas size.
const (
	TrendTitle        = "Year-wise Box Plot (Trend)"
	TrendXLabel       = "Year"
	SeasonalityTitle  = "Month-wise Box Plot (Seasonality)"
	SeasonalityXLabel = "Month"
	BoxYLabel         = "Page Views"

	boxFigWidth  = 16 * vg.Inch
	boxFigHeight = 6 * vg.Inch
)

// boxWidth is the width of one box in points.
const boxWidth vg.Length = 20

// BoxGroup is one box-plot category and the values it summarises.
type BoxGroup struct {
	Label  string
	Values []float64
}

// BoxFigure holds the trend and seasonality plots drawn side by side.
type BoxFigure struct {
	Trend       *plot.Plot
	Seasonality *plot.Plot
	YearGroups  []BoxGroup // ascending years
	MonthGroups []BoxGroup // always Jan..Dec, possibly empty
}

// Title returns the title of the left-hand plot.
func (f *BoxFigure) Title() string { return f.Trend.Title.Text }

// WritePNG draws both plots onto one 16x6 inch canvas.
func (f *BoxFigure) WritePNG(w io.Writer) error {
	img := vgimg.New(boxFigWidth, boxFigHeight)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 10,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	plots := [][]*plot.Plot{{f.Trend, f.Seasonality}}
	canvases := plot.Align(plots, tiles, dc)
	f.Trend.Draw(canvases[0][0])
	f.Seasonality.Draw(canvases[0][1])

	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

// GroupByYear buckets labelled rows by year, ascending.
func GroupByYear(rows []LabeledObservation) []BoxGroup {
	byYear := make(map[int][]float64)
	for _, r := range rows {
		byYear[r.Year] = append(byYear[r.Year], r.Value)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	groups := make([]BoxGroup, len(years))
	for i, y := range years {
		groups[i] = BoxGroup{Label: strconv.Itoa(y), Values: byYear[y]}
	}
	return groups
}

// GroupByMonth buckets labelled rows into twelve groups, Jan..Dec, whatever
// order the rows arrive in.
func GroupByMonth(rows []LabeledObservation) []BoxGroup {
	abbrevs := calendar.Abbreviations()
	groups := make([]BoxGroup, len(abbrevs))
	for i, a := range abbrevs {
		groups[i].Label = a
	}
	for _, r := range rows {
		m, ok := calendar.ParseAbbrev(r.MonthAbbrev)
		if !ok {
			continue
		}
		i := calendar.Index(m)
		groups[i].Values = append(groups[i].Values, r.Value)
	}
	return groups
}

// BuildBoxPlot renders the trend (per year) and seasonality (per month)
// box plots with independent y scales.
func BuildBoxPlot(rows []LabeledObservation) (*BoxFigure, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewRenderError("box plot needs at least one observation", nil)
	}
	yearGroups := GroupByYear(rows)
	monthGroups := GroupByMonth(rows)

	trend, err := newBoxPlot(TrendTitle, TrendXLabel, yearGroups)
	if err != nil {
		return nil, err
	}
	seasonality, err := newBoxPlot(SeasonalityTitle, SeasonalityXLabel, monthGroups)
	if err != nil {
		return nil, err
	}

	return &BoxFigure{
		Trend:       trend,
		Seasonality: seasonality,
		YearGroups:  yearGroups,
		MonthGroups: monthGroups,
	}, nil
}

// newBoxPlot places one box per group at its index; groups without values
// keep their category slot but draw nothing.
func newBoxPlot(title, xLabel string, groups []BoxGroup) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = BoxYLabel

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, err
		}
		box.FillColor = paletteColor(i)
		p.Add(box)
	}
	p.NominalX(labels...)
	// keep every category visible even when the end groups are empty
	p.X.Min = -0.5
	p.X.Max = float64(len(groups)) - 0.5

	return p, nil
}
