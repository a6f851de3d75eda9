package operations

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"pageviews/internal/cleaning"
	"pageviews/internal/config"
	"pageviews/internal/dataset"
	"pageviews/internal/infrastructure"
	"pageviews/internal/validation"
)

// Pipeline wires load, clean, plot and export steps for one configuration
type Pipeline struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	tracer    *StepTracer
	validator *validation.FileValidator

	mu       sync.Mutex
	prepared *RunState
}

// NewPipeline creates a pipeline. providers may be nil, in which case steps
// are neither traced nor measured.
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Pipeline, error) {
	logger = infrastructure.WithComponent(logger, "pipeline")

	tracer, err := NewStepTracer(providers, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		tracer:    tracer,
		validator: validation.NewFileValidator(logger),
	}, nil
}

// Prepare validates the input and runs the load and clean steps. The
// cleaned snapshot is cached, so later calls return it without reading the
// file again. A failed Prepare is not cached.
func (p *Pipeline) Prepare(ctx context.Context) (*cleaning.CleanedSeries, error) {
	state, err := p.prepare(ctx)
	if err != nil {
		return nil, err
	}
	return state.Cleaned, nil
}

func (p *Pipeline) prepare(ctx context.Context) (*RunState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.prepared != nil {
		return p.prepared, nil
	}

	if err := p.validator.ValidateInputFile(p.paths.InputFile); err != nil {
		return nil, err
	}

	state := NewRunState(infrastructure.GetTraceID(ctx))
	steps := []Step{
		NewLoadStep(p.paths.InputFile, dataset.LoadOptions{
			DateColumn:  p.cfg.Input.DateColumn,
			ValueColumn: p.cfg.Input.ValueColumn,
			DateLayout:  p.cfg.Input.DateLayout,
			Sheet:       p.cfg.Input.Sheet,
			Logger:      p.logger,
		}),
		NewCleanStep(cleaning.Options{
			LowerQuantile: p.cfg.Cleaning.LowerQuantile,
			UpperQuantile: p.cfg.Cleaning.UpperQuantile,
		}, p.logger),
	}
	if err := p.runSequential(ctx, state, steps); err != nil {
		return nil, err
	}

	infrastructure.RecordRows(ctx, p.tracer.Metrics(), state.Cleaned.InputLen(), state.Cleaned.Dropped())
	p.prepared = state
	return state, nil
}

// PlotSteps returns the three chart steps in their canonical order
func (p *Pipeline) PlotSteps() []Step {
	return []Step{
		NewLinePlotStep(p.paths, p.logger),
		NewBarPlotStep(p.paths, p.logger),
		NewBoxPlotStep(p.paths, p.logger),
	}
}

// Run prepares the cleaned series if needed, draws the three charts and,
// when enabled, writes the summary exports. It returns the run state even
// on failure so callers can inspect which steps completed.
func (p *Pipeline) Run(ctx context.Context) (*RunState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	start := time.Now()

	ctx, span := p.tracer.TraceRun(ctx, runID, p.cfg.Run.Parallel)
	defer span.End()

	state := NewRunState(runID)
	err := p.run(ctx, state)

	span.SetAttributes(attribute.Int("run.artifacts", len(state.Artifacts())))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Pipeline run failed",
			slog.Duration("duration", time.Since(start)))
		return state, err
	}

	span.SetStatus(codes.Ok, "")
	p.logger.InfoContext(ctx, "Pipeline run completed",
		slog.Int("artifacts", len(state.Artifacts())),
		slog.Duration("duration", time.Since(start)))
	return state, nil
}

func (p *Pipeline) run(ctx context.Context, state *RunState) error {
	prepared, err := p.prepare(ctx)
	if err != nil {
		return err
	}
	state.Series = prepared.Series
	state.Cleaned = prepared.Cleaned
	for _, id := range prepared.StepIDs() {
		state.trackStep(prepared.Step(id))
	}

	if err := p.validator.ValidateOutputDirectory(p.paths.OutputDir); err != nil {
		return err
	}

	if p.cfg.Run.Parallel {
		err = p.runParallel(ctx, state, p.PlotSteps())
	} else {
		err = p.runSequential(ctx, state, p.PlotSteps())
	}
	if err != nil {
		return err
	}

	if p.cfg.Output.ExportSummaries {
		if err := p.tracer.Execute(ctx, NewExportStep(p.paths, p.logger), state); err != nil {
			return err
		}
	}

	for _, artifact := range state.Artifacts() {
		infrastructure.RecordArtifact(ctx, p.tracer.Metrics(), artifactKind(artifact))
	}
	return nil
}

// runSequential executes steps in order and stops at the first failure
func (p *Pipeline) runSequential(ctx context.Context, state *RunState, steps []Step) error {
	for _, step := range steps {
		if err := p.tracer.Execute(ctx, step, state); err != nil {
			return err
		}
	}
	return nil
}

// runParallel executes steps concurrently. The first failure cancels the
// context seen by the others and is the error returned.
func (p *Pipeline) runParallel(ctx context.Context, state *RunState, steps []Step) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, step := range steps {
		step := step
		g.Go(func() error {
			return p.tracer.Execute(gctx, step, state)
		})
	}
	return g.Wait()
}

func artifactKind(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
