package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "pageviews/internal/errors"
)

// LoadOptions controls how the input table is read.
type LoadOptions struct {
	DateColumn  string // header of the date column (default "date")
	ValueColumn string // header of the value column (default "value")
	DateLayout  string // preferred layout, tried before the fallbacks
	Sheet       string // XLSX sheet name; first sheet when empty
	Logger      *slog.Logger
}

// DefaultLoadOptions returns the options matching the forum page-view export.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		DateColumn:  "date",
		ValueColumn: "value",
		DateLayout:  "2006-01-02",
	}
}

// fallbackLayouts are tried after LoadOptions.DateLayout.
var fallbackLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Load reads a Series from path. Files ending in .xlsx are read with
// excelize, everything else as CSV.
func Load(path string, opts LoadOptions) (*Series, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, opts)
	}
	return LoadCSV(path, opts)
}

// LoadCSV reads a Series from a CSV file.
func LoadCSV(path string, opts LoadOptions) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("input file", err).WithContext("path", path)
		}
		return nil, apperrors.NewStorageError("open input file", err).WithContext("path", path)
	}
	defer file.Close()

	series, err := ReadCSV(file, opts)
	if err != nil {
		return nil, err
	}
	series.Source = path
	return series, nil
}

// ReadCSV reads a Series from CSV content with a header row.
func ReadCSV(r io.Reader, opts LoadOptions) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError("input has no header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("read header", err)
	}

	cols, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}

	series := &Series{}
	// header is line 1
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperrors.NewParsingError("read record", err).WithContext("row", line)
		}
		obs, err := cols.parse(record, line, opts)
		if err != nil {
			return nil, err
		}
		series.Observations = append(series.Observations, obs)
	}

	logger(opts).Debug("Parsed CSV input",
		slog.Int("rows", series.Len()),
		slog.String("date_column", cols.dateName),
		slog.String("value_column", cols.valueName))

	return series, nil
}

// LoadXLSX reads a Series from an Excel workbook.
func LoadXLSX(path string, opts LoadOptions) (*Series, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("input file", err).WithContext("path", path)
		}
		return nil, apperrors.NewParsingError("open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("input has no header row", nil).WithContext("sheet", sheet)
	}

	cols, err := resolveColumns(rows[0], opts)
	if err != nil {
		return nil, err
	}

	series := &Series{Source: path}
	for i, row := range rows[1:] {
		// GetRows drops trailing empty rows but keeps blank ones in between
		if len(row) == 0 {
			continue
		}
		obs, err := cols.parse(row, i+2, opts)
		if err != nil {
			return nil, err
		}
		series.Observations = append(series.Observations, obs)
	}

	logger(opts).Debug("Parsed XLSX input",
		slog.String("sheet", sheet),
		slog.Int("rows", series.Len()))

	return series, nil
}

// columns holds resolved header positions
type columns struct {
	dateIdx, valueIdx   int
	dateName, valueName string
}

func resolveColumns(header []string, opts LoadOptions) (columns, error) {
	defaults := DefaultLoadOptions()
	cols := columns{
		dateIdx:   -1,
		valueIdx:  -1,
		dateName:  opts.DateColumn,
		valueName: opts.ValueColumn,
	}
	if cols.dateName == "" {
		cols.dateName = defaults.DateColumn
	}
	if cols.valueName == "" {
		cols.valueName = defaults.ValueColumn
	}

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case cols.dateName:
			cols.dateIdx = i
		case cols.valueName:
			cols.valueIdx = i
		}
	}

	if cols.dateIdx == -1 {
		return cols, apperrors.NewParsingError(fmt.Sprintf("missing column %q", cols.dateName), nil).
			WithContext("header", header)
	}
	if cols.valueIdx == -1 {
		return cols, apperrors.NewParsingError(fmt.Sprintf("missing column %q", cols.valueName), nil).
			WithContext("header", header)
	}
	return cols, nil
}

func (c columns) parse(record []string, row int, opts LoadOptions) (Observation, error) {
	if c.dateIdx >= len(record) || c.valueIdx >= len(record) {
		return Observation{}, apperrors.NewParsingError("record is shorter than header", nil).
			WithContext("row", row)
	}

	date, err := parseDate(strings.TrimSpace(record[c.dateIdx]), opts.DateLayout)
	if err != nil {
		return Observation{}, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid %s", row, c.dateName), err).
			WithContext("row", row).
			WithContext("column", c.dateName)
	}

	raw := strings.TrimSpace(record[c.valueIdx])
	value, err := strconv.ParseFloat(raw, 64)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = fmt.Errorf("non-finite value %q", raw)
	}
	if err != nil {
		return Observation{}, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid %s", row, c.valueName), err).
			WithContext("row", row).
			WithContext("column", c.valueName)
	}

	return Observation{Date: date, Value: value}, nil
}

func parseDate(s, preferred string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if preferred != "" {
		if t, err := time.Parse(preferred, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func logger(opts LoadOptions) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}
