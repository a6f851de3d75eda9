package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Paths contains every file path the run touches, resolved to absolute form
type Paths struct {
	InputFile string
	OutputDir string

	// Chart artifacts
	LinePlot string
	BarPlot  string
	BoxPlot  string

	// Optional exports
	MonthlyMeansCSV  string
	MonthlyMeansXLSX string
	CleanedCSV       string

	LogFile     string
	MetricsFile string
}

// NewPaths resolves the configured locations against the working directory
func NewPaths(cfg *Config) (*Paths, error) {
	input, err := filepath.Abs(cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}

	outDir, err := filepath.Abs(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	paths := &Paths{
		InputFile:        input,
		OutputDir:        outDir,
		LinePlot:         filepath.Join(outDir, LinePlotFile),
		BarPlot:          filepath.Join(outDir, BarPlotFile),
		BoxPlot:          filepath.Join(outDir, BoxPlotFile),
		MonthlyMeansCSV:  filepath.Join(outDir, MonthlyMeansCSVFile),
		MonthlyMeansXLSX: filepath.Join(outDir, MonthlyMeansXLSXFile),
		CleanedCSV:       filepath.Join(outDir, CleanedCSVFile),
	}

	if cfg.Logging.FilePath != "" {
		if paths.LogFile, err = filepath.Abs(cfg.Logging.FilePath); err != nil {
			return nil, fmt.Errorf("failed to resolve log file path: %w", err)
		}
	}
	if cfg.Telemetry.MetricsFile != "" {
		if paths.MetricsFile, err = filepath.Abs(cfg.Telemetry.MetricsFile); err != nil {
			return nil, fmt.Errorf("failed to resolve metrics file path: %w", err)
		}
	}

	return paths, nil
}

// Charts returns the three chart paths in line, bar, box order
func (p *Paths) Charts() []string {
	return []string{p.LinePlot, p.BarPlot, p.BoxPlot}
}

// Exports returns the optional export paths
func (p *Paths) Exports() []string {
	return []string{p.MonthlyMeansCSV, p.MonthlyMeansXLSX, p.CleanedCSV}
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("input_file", p.InputFile),
		slog.String("output_dir", p.OutputDir),
		slog.Any("charts", p.Charts()),
		slog.Any("exports", p.Exports()),
		slog.String("log_file", p.LogFile),
		slog.String("metrics_file", p.MetricsFile))
}
