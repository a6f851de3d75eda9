package charts

import (
	"context"
	"log/slog"
	"time"

	"pageviews/internal/cleaning"
	"pageviews/internal/config"
)

// Visualizer renders the three charts from one cleaned snapshot to the
// chart paths of a resolved configuration. It holds no mutable state, so its
// methods may run concurrently.
type Visualizer struct {
	cleaned *cleaning.CleanedSeries
	paths   *config.Paths
	logger  *slog.Logger
}

// NewVisualizer binds a cleaned series and the paths its charts go to.
func NewVisualizer(cleaned *cleaning.CleanedSeries, paths *config.Paths, logger *slog.Logger) *Visualizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaned == nil {
		cleaned = cleaning.NewCleanedSeries("", nil)
	}
	return &Visualizer{
		cleaned: cleaned,
		paths:   paths,
		logger:  logger.With(slog.String("component", "visualizer")),
	}
}

// LinePlotPath returns where DrawLinePlot writes.
func (v *Visualizer) LinePlotPath() string { return v.paths.LinePlot }

// BarPlotPath returns where DrawBarPlot writes.
func (v *Visualizer) BarPlotPath() string { return v.paths.BarPlot }

// BoxPlotPath returns where DrawBoxPlot writes.
func (v *Visualizer) BoxPlotPath() string { return v.paths.BoxPlot }

// DrawLinePlot renders and saves the time-series line plot.
func (v *Visualizer) DrawLinePlot(ctx context.Context) (*LineFigure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	fig := BuildLinePlot(v.cleaned)
	if err := SavePNG(fig, v.LinePlotPath()); err != nil {
		return nil, err
	}

	v.logger.InfoContext(ctx, "Line plot written",
		slog.String("path", v.LinePlotPath()),
		slog.Int("points", len(fig.Values)),
		slog.Duration("duration", time.Since(start)))
	return fig, nil
}

// DrawBarPlot aggregates monthly means, then renders and saves the grouped
// bar chart.
func (v *Visualizer) DrawBarPlot(ctx context.Context) (*BarFigure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	table := AggregateMonthly(v.cleaned)
	fig, err := BuildBarPlot(table)
	if err != nil {
		return nil, wrapBuildError("bar plot", err)
	}
	if err := SavePNG(fig, v.BarPlotPath()); err != nil {
		return nil, err
	}

	v.logger.InfoContext(ctx, "Bar plot written",
		slog.String("path", v.BarPlotPath()),
		slog.Int("years", len(table.Years)),
		slog.Int("months", len(table.Months)),
		slog.Duration("duration", time.Since(start)))
	return fig, nil
}

// DrawBoxPlot labels each row with its year and month, then renders and
// saves the trend and seasonality box plots.
func (v *Visualizer) DrawBoxPlot(ctx context.Context) (*BoxFigure, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	fig, err := BuildBoxPlot(LabelObservations(v.cleaned))
	if err != nil {
		return nil, wrapBuildError("box plot", err)
	}
	if err := SavePNG(fig, v.BoxPlotPath()); err != nil {
		return nil, err
	}

	v.logger.InfoContext(ctx, "Box plot written",
		slog.String("path", v.BoxPlotPath()),
		slog.Int("years", len(fig.YearGroups)),
		slog.Duration("duration", time.Since(start)))
	return fig, nil
}
