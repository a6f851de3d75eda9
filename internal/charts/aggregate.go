package charts

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"pageviews/internal/calendar"
	"pageviews/internal/cleaning"
)

// MonthlyTable holds mean values per (year, month). Rows are years in
// ascending order; columns are the months present in the data in calendar
// order. Cells without observations are NaN.
type MonthlyTable struct {
	Years  []int
	Months []time.Month
	Means  [][]float64 // Means[yearIdx][monthIdx]
}

type yearMonth struct {
	year  int
	month time.Month
}

// AggregateMonthly partitions the cleaned rows by (year, month) and averages
// each partition.
func AggregateMonthly(cleaned *cleaning.CleanedSeries) *MonthlyTable {
	buckets := make(map[yearMonth][]float64)
	years := make(map[int]struct{})
	months := make(map[time.Month]struct{})

	for _, o := range cleaned.Observations() {
		key := yearMonth{year: o.Date.Year(), month: o.Date.Month()}
		buckets[key] = append(buckets[key], o.Value)
		years[key.year] = struct{}{}
		months[key.month] = struct{}{}
	}

	table := &MonthlyTable{}
	for y := range years {
		table.Years = append(table.Years, y)
	}
	sort.Ints(table.Years)

	for _, m := range calendar.Months() {
		if _, ok := months[m]; ok {
			table.Months = append(table.Months, m)
		}
	}

	table.Means = make([][]float64, len(table.Years))
	for i, y := range table.Years {
		row := make([]float64, len(table.Months))
		for j, m := range table.Months {
			values, ok := buckets[yearMonth{year: y, month: m}]
			if !ok {
				row[j] = math.NaN()
				continue
			}
			row[j] = stat.Mean(values, nil)
		}
		table.Means[i] = row
	}

	return table
}

// Columns returns the full English month names of the table's columns.
func (t *MonthlyTable) Columns() []string {
	return calendar.FullNames(t.Months)
}

// Mean returns the cell for (year, month) and whether it holds data.
func (t *MonthlyTable) Mean(year int, month time.Month) (float64, bool) {
	yi := sort.SearchInts(t.Years, year)
	if yi >= len(t.Years) || t.Years[yi] != year {
		return 0, false
	}
	for mi, m := range t.Months {
		if m == month {
			v := t.Means[yi][mi]
			return v, !math.IsNaN(v)
		}
	}
	return 0, false
}

// Empty reports whether the table has no cells.
func (t *MonthlyTable) Empty() bool {
	return len(t.Years) == 0 || len(t.Months) == 0
}
