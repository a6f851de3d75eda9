package exporter

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatMean is formatFloat with NaN rendered as an empty cell
func formatMean(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return formatFloat(f)
}

// formatValue keeps integral page-view counts free of a decimal part
func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatDate formats a calendar date as YYYY-MM-DD
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
