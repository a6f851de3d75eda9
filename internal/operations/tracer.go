package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"pageviews/internal/infrastructure"
)

// TracerName is the instrumentation scope for step spans
const TracerName = "pageviews.pipeline"

// StepTracer wraps step execution in a span, times it into the pipeline
// metrics and logs start and finish
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewStepTracer creates a tracer from the initialized providers. Nil
// providers give a no-op tracer without metrics.
func NewStepTracer(providers *infrastructure.OTelProviders, logger *slog.Logger) (*StepTracer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st := &StepTracer{
		tracer: tracenoop.NewTracerProvider().Tracer(TracerName),
		logger: logger,
	}
	if providers == nil {
		return st, nil
	}

	if providers.Tracer != nil {
		st.tracer = providers.Tracer
	}
	if providers.Meter != nil {
		metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
		}
		st.metrics = metrics
	}
	return st, nil
}

// Metrics returns the pipeline instruments, nil when metrics are disabled
func (st *StepTracer) Metrics() *infrastructure.PipelineMetrics {
	return st.metrics
}

// TraceRun creates the root span for one run
func (st *StepTracer) TraceRun(ctx context.Context, runID string, parallel bool) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Bool("run.parallel", parallel),
		),
	)
}

// Execute runs step inside its own span and records its state on state
func (st *StepTracer) Execute(ctx context.Context, step Step, state *RunState) error {
	stepState := NewStepState(step.ID(), step.Name())
	state.trackStep(stepState)

	ctx, span := st.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", step.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", state.RunID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	logger := st.logger.With(slog.String("step", step.ID()))
	logger.InfoContext(ctx, "Step started", slog.String("name", step.Name()))

	stepState.Start()
	start := time.Now()
	err := step.Execute(ctx, state)
	duration := time.Since(start)

	infrastructure.RecordStepMetrics(ctx, st.metrics, step.ID(), duration, err)
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))

	if err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Step failed",
			slog.Duration("duration", duration))
		return err
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "")
	logger.InfoContext(ctx, "Step completed", slog.Duration("duration", duration))
	return nil
}
