package operations

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageviews/internal/config"
	apperrors "pageviews/internal/errors"
	"pageviews/internal/infrastructure"
	"pageviews/internal/shared/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// funcStep adapts a function to the Step interface
type funcStep struct {
	BaseStep
	fn func(ctx context.Context, state *RunState) error
}

func (s *funcStep) Execute(ctx context.Context, state *RunState) error {
	return s.fn(ctx, state)
}

func newFuncStep(id string, fn func(ctx context.Context, state *RunState) error) Step {
	return &funcStep{BaseStep: NewBaseStep(id, id), fn: fn}
}

// newTestPipeline writes three years of forum data and returns a pipeline
// over it with charts going to a temp dir
func newTestPipeline(t *testing.T, providers *infrastructure.OTelProviders, mutate func(*config.Config)) (*Pipeline, *config.Paths, *testutil.BufferedSlogHandler) {
	t.Helper()

	series := testutil.SeasonalSeries(testutil.ForumStart, 3*365)
	cfg := config.Default()
	cfg.Input.Path = testutil.WriteCSV(t, "fcc-forum-pageviews.csv", series.Observations)
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	if mutate != nil {
		mutate(cfg)
	}

	paths, err := config.NewPaths(cfg)
	require.NoError(t, err)

	logger, handler := testutil.NewTestLogger(t)
	p, err := NewPipeline(cfg, paths, logger, providers)
	require.NoError(t, err)
	return p, paths, handler
}

func TestPipeline_Run(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			p, paths, handler := newTestPipeline(t, nil, func(cfg *config.Config) {
				cfg.Run.Parallel = parallel
			})

			state, err := p.Run(context.Background())
			require.NoError(t, err)

			assert.NotEmpty(t, state.RunID)
			assert.ElementsMatch(t, paths.Charts(), state.Artifacts())
			for _, path := range paths.Charts() {
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
			}

			assert.NotNil(t, state.LineFigure())
			assert.NotNil(t, state.BarFigure())
			assert.NotNil(t, state.BoxFigure())
			assert.NotNil(t, state.Cleaned)
			assert.Less(t, state.Cleaned.Len(), state.Series.Len())

			for _, id := range []string{StepIDLoad, StepIDClean, StepIDLinePlot, StepIDBarPlot, StepIDBoxPlot} {
				step := state.Step(id)
				require.NotNil(t, step, id)
				assert.Equal(t, StepStatusCompleted, step.CurrentStatus(), id)
			}
			assert.Nil(t, state.Step(StepIDExport), "exports are off by default")

			testutil.AssertLogContains(t, handler, slog.LevelInfo, "Series loaded")
			testutil.AssertLogAttr(t, handler, "first_date", "2016-05-09")
			testutil.AssertLogAttr(t, handler, "last_date", testutil.ForumStart.AddDate(0, 0, 3*365-1).Format(time.DateOnly))
			testutil.AssertLogContains(t, handler, slog.LevelInfo, "Pipeline run completed")
			testutil.AssertNoErrors(t, handler)
		})
	}
}

func TestPipeline_Run_ExportSummaries(t *testing.T) {
	p, paths, _ := newTestPipeline(t, nil, func(cfg *config.Config) {
		cfg.Output.ExportSummaries = true
	})

	state, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, state.Artifacts(), len(paths.Charts())+len(paths.Exports()))
	for _, path := range paths.Exports() {
		assert.FileExists(t, path)
	}
	assert.Equal(t, StepStatusCompleted, state.Step(StepIDExport).CurrentStatus())

	monthly, err := os.ReadFile(paths.MonthlyMeansCSV)
	require.NoError(t, err)
	assert.Contains(t, string(monthly), "Year,January")
}

func TestPipeline_Run_MissingInput(t *testing.T) {
	p, paths, handler := newTestPipeline(t, nil, func(cfg *config.Config) {
		cfg.Input.Path = filepath.Join(t.TempDir(), "missing.csv")
	})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)

	for _, path := range paths.Charts() {
		assert.NoFileExists(t, path)
	}
	testutil.AssertLogContains(t, handler, slog.LevelError, "Pipeline run failed")
}

func TestPipeline_Run_UnsupportedInput(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, func(cfg *config.Config) {
		path := filepath.Join(t.TempDir(), "pageviews.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		cfg.Input.Path = path
	})

	_, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)
}

func TestPipeline_Run_ParseFailure(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, func(cfg *config.Config) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("date,value\n2016-05-09,abc\n"), 0644))
		cfg.Input.Path = path
	})

	state, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrParsing), "got %v", err)
	assert.Nil(t, state.Cleaned)
}

func TestPipeline_Prepare_Cached(t *testing.T) {
	p, paths, _ := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	first, err := p.Prepare(ctx)
	require.NoError(t, err)

	// the input is not read again
	require.NoError(t, os.Remove(paths.InputFile))

	second, err := p.Prepare(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	state, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Same(t, first, state.Cleaned)
	assert.Equal(t, StepStatusCompleted, state.Step(StepIDLoad).CurrentStatus())
}

func TestPipeline_Prepare_FailureNotCached(t *testing.T) {
	p, paths, _ := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	data, err := os.ReadFile(paths.InputFile)
	require.NoError(t, err)
	require.NoError(t, os.Remove(paths.InputFile))

	_, err = p.Prepare(ctx)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(paths.InputFile, data, 0644))
	cleaned, err := p.Prepare(ctx)
	require.NoError(t, err)
	assert.Positive(t, cleaned.Len())
}

func TestPipeline_Run_Idempotent(t *testing.T) {
	p, paths, _ := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	_, err := p.Run(ctx)
	require.NoError(t, err)
	first := make(map[string][]byte)
	for _, path := range paths.Charts() {
		first[path], err = os.ReadFile(path)
		require.NoError(t, err)
	}

	_, err = p.Run(ctx)
	require.NoError(t, err)
	for _, path := range paths.Charts() {
		again, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, first[path], again, "%s changed between runs", filepath.Base(path))
	}
}

func TestPipeline_Run_CanceledContext(t *testing.T) {
	p, paths, _ := newTestPipeline(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	for _, path := range paths.Charts() {
		assert.NoFileExists(t, path)
	}
}

func TestRunParallel_FirstFailureCancelsOthers(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, nil)
	state := NewRunState("run-parallel")

	canceled := make(chan struct{})
	steps := []Step{
		newFuncStep("render", func(ctx context.Context, _ *RunState) error {
			return apperrors.NewRenderError("bar plot failed", nil)
		}),
		newFuncStep("blocker", func(ctx context.Context, _ *RunState) error {
			select {
			case <-ctx.Done():
				close(canceled)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return errors.New("not canceled")
			}
		}),
	}

	err := p.runParallel(context.Background(), state, steps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRender), "first failure is returned, got %v", err)

	select {
	case <-canceled:
	default:
		t.Fatal("blocking step was not canceled")
	}
	assert.Equal(t, StepStatusFailed, state.Step("render").CurrentStatus())
	assert.Equal(t, StepStatusFailed, state.Step("blocker").CurrentStatus())
}

func TestRunSequential_StopsAtFirstFailure(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, nil)
	state := NewRunState("run-sequential")

	ran := false
	steps := []Step{
		newFuncStep("first", func(context.Context, *RunState) error {
			return apperrors.NewStorageError("disk full", nil)
		}),
		newFuncStep("second", func(context.Context, *RunState) error {
			ran = true
			return nil
		}),
	}

	err := p.runSequential(context.Background(), state, steps)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
	assert.False(t, ran)
	assert.Nil(t, state.Step("second"))
	assert.Equal(t, []string{"first"}, state.StepIDs())
}

func TestPipeline_Run_Telemetry(t *testing.T) {
	var spans bytes.Buffer
	metricsFile := filepath.Join(t.TempDir(), "pageviews.prom")
	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.TraceExporter = "stdout"
	otelCfg.TraceWriter = &spans
	otelCfg.MetricsFile = metricsFile

	providers, err := infrastructure.InitializeOTel(otelCfg, nil)
	require.NoError(t, err)

	p, _, _ := newTestPipeline(t, providers, func(cfg *config.Config) {
		cfg.Output.ExportSummaries = true
	})
	_, err = p.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, providers.Shutdown(context.Background()))

	for _, name := range []string{"pipeline.run", "pipeline.step.load", "pipeline.step.clean", "pipeline.step.box_plot", "pipeline.step.export"} {
		assert.Contains(t, spans.String(), name)
	}

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "pageviews_rows_loaded_total")
	assert.Contains(t, text, "pageviews_rows_dropped_total")
	assert.Contains(t, text, `step_id="line_plot"`)
	assert.Contains(t, text, `artifact_kind="png"`)
	assert.Contains(t, text, `artifact_kind="xlsx"`)
	assert.False(t, strings.Contains(text, "pageviews_step_errors_total{"), "no step failed")
}

func TestArtifactKind(t *testing.T) {
	assert.Equal(t, "png", artifactKind("/out/line_plot.png"))
	assert.Equal(t, "xlsx", artifactKind("/out/monthly_means.XLSX"))
	assert.Equal(t, "", artifactKind("/out/README"))
}
