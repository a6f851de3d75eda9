// Command pageviews renders the forum page-view charts.
//
// It reads fcc-forum-pageviews.csv (or the configured input), drops the
// top and bottom 2.5% of days by page views and writes line_plot.png,
// bar_plot.png and box_plot.png into the output directory. Configuration
// comes from pageviews.yaml and PAGEVIEWS_* environment variables.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pageviews/internal/config"
	apperrors "pageviews/internal/errors"
	"pageviews/internal/infrastructure"
	"pageviews/internal/operations"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		return 1
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		slog.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting pageviews",
		slog.String("version", config.AppVersion),
		slog.String("input", paths.InputFile),
		slog.String("output_dir", paths.OutputDir),
		slog.Bool("parallel", cfg.Run.Parallel),
		slog.Bool("export_summaries", cfg.Output.ExportSummaries))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, paths.MetricsFile), logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.ContextWithTraceID(ctx)

	pipeline, err := operations.NewPipeline(cfg, paths, logger, providers)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create pipeline", slog.String("error", err.Error()))
		return 1
	}

	state, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Run failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		return 1
	}

	for _, artifact := range state.Artifacts() {
		logger.InfoContext(ctx, "Wrote artifact", slog.String("path", artifact))
	}
	return 0
}
