package exporter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"pageviews/internal/charts"
	"pageviews/internal/cleaning"
	"pageviews/internal/config"
	apperrors "pageviews/internal/errors"
)

// MonthlySheet is the worksheet name used in the monthly means workbook
const MonthlySheet = "Monthly Means"

// SummaryExporter writes monthly means and the cleaned series to the
// export locations in paths
type SummaryExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewSummaryExporter creates an exporter for the resolved export paths
func NewSummaryExporter(paths *config.Paths, logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &SummaryExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths.OutputDir, logger),
		logger: logger,
	}
}

// monthlyHeader is "Year" followed by the table's month names
func monthlyHeader(table *charts.MonthlyTable) []string {
	return append([]string{"Year"}, table.Columns()...)
}

// ExportMonthlyCSV writes the monthly mean table, one row per year, with
// two-decimal means and blank cells where a month has no data.
func (e *SummaryExporter) ExportMonthlyCSV(table *charts.MonthlyTable) (string, error) {
	records := make([][]string, len(table.Years))
	for yi, year := range table.Years {
		row := make([]string, 0, len(table.Months)+1)
		row = append(row, strconv.Itoa(year))
		for _, v := range table.Means[yi] {
			row = append(row, formatMean(v))
		}
		records[yi] = row
	}

	path, err := e.csv.WriteSimpleCSV(e.paths.MonthlyMeansCSV, monthlyHeader(table), records)
	if err != nil {
		return "", err
	}

	e.logger.Info("Monthly means exported",
		slog.String("path", path),
		slog.Int("years", len(table.Years)))
	return path, nil
}

// ExportMonthlyXLSX writes the monthly mean table to a workbook with a bold
// header row and two-decimal number format.
func (e *SummaryExporter) ExportMonthlyXLSX(table *charts.MonthlyTable) (string, error) {
	path := e.paths.MonthlyMeansXLSX

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), MonthlySheet); err != nil {
		return "", apperrors.NewStorageError("rename sheet", err)
	}

	header := monthlyHeader(table)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(MonthlySheet, "A1", &headerRow); err != nil {
		return "", apperrors.NewStorageError("write header row", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", apperrors.NewStorageError("create header style", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(MonthlySheet, "A1", lastHeader, bold); err != nil {
		return "", apperrors.NewStorageError("apply header style", err)
	}

	twoDecimals, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return "", apperrors.NewStorageError("create number style", err)
	}

	for yi, year := range table.Years {
		row := yi + 2
		yearCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(MonthlySheet, yearCell, year); err != nil {
			return "", apperrors.NewStorageError("write year", err).WithContext("cell", yearCell)
		}
		for mi, month := range table.Months {
			v, ok := table.Mean(year, month)
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(mi+2, row)
			if err := f.SetCellFloat(MonthlySheet, cell, v, -1, 64); err != nil {
				return "", apperrors.NewStorageError("write mean", err).WithContext("cell", cell)
			}
			if err := f.SetCellStyle(MonthlySheet, cell, cell, twoDecimals); err != nil {
				return "", apperrors.NewStorageError("apply number style", err).WithContext("cell", cell)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("save workbook", err).WithContext("path", path)
	}

	e.logger.Info("Monthly means workbook exported",
		slog.String("path", path),
		slog.String("sheet", MonthlySheet))
	return path, nil
}

// ExportCleanedCSV writes the retained observations as date,value in input
// order, so the file can be fed back to the loader.
func (e *SummaryExporter) ExportCleanedCSV(cleaned *cleaning.CleanedSeries) (string, error) {
	observations := cleaned.Observations()
	records := make([][]string, len(observations))
	for i, o := range observations {
		records[i] = []string{formatDate(o.Date), formatValue(o.Value)}
	}

	path, err := e.csv.WriteCSV(e.paths.CleanedCSV, WriteOptions{
		Headers: []string{"date", "value"},
		Records: records,
	})
	if err != nil {
		return "", err
	}

	bounds := cleaned.Bounds()
	e.logger.Info("Cleaned series exported",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Float64("lower", bounds.Lower),
		slog.Float64("upper", bounds.Upper))
	return path, nil
}
