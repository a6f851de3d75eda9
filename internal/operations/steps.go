package operations

import (
	"context"
	"log/slog"
	"time"

	"pageviews/internal/charts"
	"pageviews/internal/cleaning"
	"pageviews/internal/config"
	"pageviews/internal/dataset"
	apperrors "pageviews/internal/errors"
	"pageviews/internal/exporter"
)

// LoadStep reads the input table into state.Series
type LoadStep struct {
	BaseStep
	path string
	opts dataset.LoadOptions
}

// NewLoadStep creates the load step for path
func NewLoadStep(path string, opts dataset.LoadOptions) *LoadStep {
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, "Load page views"),
		path:     path,
		opts:     opts,
	}
}

// Execute loads the series
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	series, err := dataset.Load(s.path, s.opts)
	if err != nil {
		return err
	}
	state.Series = series

	first, last := series.Span()
	logger := s.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Series loaded",
		slog.Int("rows", series.Len()),
		slog.String("first_date", first.Format(time.DateOnly)),
		slog.String("last_date", last.Format(time.DateOnly)))
	return nil
}

// CleanStep removes outliers from state.Series into state.Cleaned
type CleanStep struct {
	BaseStep
	opts   cleaning.Options
	logger *slog.Logger
}

// NewCleanStep creates the clean step
func NewCleanStep(opts cleaning.Options, logger *slog.Logger) *CleanStep {
	return &CleanStep{
		BaseStep: NewBaseStep(StepIDClean, "Remove outliers"),
		opts:     opts,
		logger:   logger,
	}
}

// Execute cleans the loaded series
func (s *CleanStep) Execute(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Series == nil {
		return apperrors.NewValidationError("clean step requires a loaded series", nil)
	}

	cleaned, err := cleaning.Clean(state.Series, s.opts)
	if err != nil {
		return err
	}
	state.Cleaned = cleaned

	bounds := cleaned.Bounds()
	s.logger.InfoContext(ctx, "Outliers removed",
		slog.Int("rows_in", cleaned.InputLen()),
		slog.Int("rows_kept", cleaned.Len()),
		slog.Int("rows_dropped", cleaned.Dropped()),
		slog.Float64("lower_bound", bounds.Lower),
		slog.Float64("upper_bound", bounds.Upper))
	return nil
}

// plotStep renders one chart through a Visualizer bound to state.Cleaned
type plotStep struct {
	BaseStep
	paths  *config.Paths
	logger *slog.Logger
	draw   func(ctx context.Context, v *charts.Visualizer, state *RunState) (string, error)
}

// Execute draws the chart and records the written file
func (s *plotStep) Execute(ctx context.Context, state *RunState) error {
	if state.Cleaned == nil {
		return apperrors.NewValidationError(s.ID()+" step requires a cleaned series", nil)
	}
	v := charts.NewVisualizer(state.Cleaned, s.paths, s.logger)
	path, err := s.draw(ctx, v, state)
	if err != nil {
		return err
	}
	state.AddArtifact(path)
	return nil
}

// NewLinePlotStep creates the step that writes line_plot.png
func NewLinePlotStep(paths *config.Paths, logger *slog.Logger) Step {
	return &plotStep{
		BaseStep: NewBaseStep(StepIDLinePlot, "Draw line plot"),
		paths:    paths,
		logger:   logger,
		draw: func(ctx context.Context, v *charts.Visualizer, state *RunState) (string, error) {
			fig, err := v.DrawLinePlot(ctx)
			if err != nil {
				return "", err
			}
			state.SetLineFigure(fig)
			return v.LinePlotPath(), nil
		},
	}
}

// NewBarPlotStep creates the step that writes bar_plot.png
func NewBarPlotStep(paths *config.Paths, logger *slog.Logger) Step {
	return &plotStep{
		BaseStep: NewBaseStep(StepIDBarPlot, "Draw bar plot"),
		paths:    paths,
		logger:   logger,
		draw: func(ctx context.Context, v *charts.Visualizer, state *RunState) (string, error) {
			fig, err := v.DrawBarPlot(ctx)
			if err != nil {
				return "", err
			}
			state.SetBarFigure(fig)
			return v.BarPlotPath(), nil
		},
	}
}

// NewBoxPlotStep creates the step that writes box_plot.png
func NewBoxPlotStep(paths *config.Paths, logger *slog.Logger) Step {
	return &plotStep{
		BaseStep: NewBaseStep(StepIDBoxPlot, "Draw box plots"),
		paths:    paths,
		logger:   logger,
		draw: func(ctx context.Context, v *charts.Visualizer, state *RunState) (string, error) {
			fig, err := v.DrawBoxPlot(ctx)
			if err != nil {
				return "", err
			}
			state.SetBoxFigure(fig)
			return v.BoxPlotPath(), nil
		},
	}
}

// ExportStep writes the monthly means as CSV and XLSX and the cleaned
// series as CSV
type ExportStep struct {
	BaseStep
	exporter *exporter.SummaryExporter
}

// NewExportStep creates the export step writing to the export paths
func NewExportStep(paths *config.Paths, logger *slog.Logger) *ExportStep {
	return &ExportStep{
		BaseStep: NewBaseStep(StepIDExport, "Export summaries"),
		exporter: exporter.NewSummaryExporter(paths, logger),
	}
}

// Execute writes the summary files
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state.Cleaned == nil {
		return apperrors.NewValidationError("export step requires a cleaned series", nil)
	}

	var table *charts.MonthlyTable
	if bar := state.BarFigure(); bar != nil {
		table = bar.Table
	} else {
		table = charts.AggregateMonthly(state.Cleaned)
	}

	writers := []func() (string, error){
		func() (string, error) { return s.exporter.ExportMonthlyCSV(table) },
		func() (string, error) { return s.exporter.ExportMonthlyXLSX(table) },
		func() (string, error) { return s.exporter.ExportCleanedCSV(state.Cleaned) },
	}
	for _, write := range writers {
		path, err := write()
		if err != nil {
			return err
		}
		state.AddArtifact(path)
	}
	return nil
}
