// Package config provides configuration management for the page-view
// visualizer. It loads settings from several sources, validates them, and
// resolves every file path the run reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// The YAML file is the one named by PAGEVIEWS_CONFIG, or the first of
// pageviews.yaml and configs/pageviews.yaml that exists.
//
// # Environment Variables
//
// All environment variables follow the pattern PAGEVIEWS_<SECTION>_<FIELD>:
//
//	PAGEVIEWS_INPUT_PATH=fcc-forum-pageviews.csv
//	PAGEVIEWS_CLEANING_LOWER_QUANTILE=0.025
//	PAGEVIEWS_OUTPUT_DIR=out
//	PAGEVIEWS_OUTPUT_EXPORT_SUMMARIES=true
//	PAGEVIEWS_RUN_PARALLEL=false
//	PAGEVIEWS_LOGGING_LEVEL=debug
//	PAGEVIEWS_TELEMETRY_TRACE_EXPORTER=stdout
//	PAGEVIEWS_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/pageviews.prom
//
// # Validation
//
// Struct tags are checked with go-playground/validator; every violation is
// reported in a single CONFIG error.
//
// # Paths
//
// NewPaths turns the configuration into absolute paths for the input file,
// the three chart images, the optional exports and the log file. Chart file
// names are fixed: line_plot.png, bar_plot.png and box_plot.png.
package config
