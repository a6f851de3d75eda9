// Package exporter writes the tabular side products of a run.
//
// CSVWriter is the shared CSV primitive: it creates the target directory,
// truncates the file, optionally prefixes a UTF-8 BOM for Excel, and writes a
// header plus records. SummaryExporter builds on it to export the monthly
// mean table as CSV and as an Excel workbook, and the cleaned series as CSV.
//
// Example usage:
//
//	exp := exporter.NewSummaryExporter(paths, logger)
//	path, err := exp.ExportMonthlyXLSX(charts.AggregateMonthly(cleaned))
package exporter
