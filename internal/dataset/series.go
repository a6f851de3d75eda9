package dataset

import (
	"sort"
	"time"
)

// Observation is one day of page views.
type Observation struct {
	Date  time.Time
	Value float64
}

// Series is a loaded dataset in file row order.
type Series struct {
	Source       string
	Observations []Observation
}

// NewSeries builds a Series from parallel date and value slices.
func NewSeries(source string, dates []time.Time, values []float64) *Series {
	n := len(dates)
	if len(values) < n {
		n = len(values)
	}
	obs := make([]Observation, n)
	for i := 0; i < n; i++ {
		obs[i] = Observation{Date: dates[i], Value: values[i]}
	}
	return &Series{Source: source, Observations: obs}
}

// Len returns the number of observations.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Observations)
}

// Values returns a copy of the value column.
func (s *Series) Values() []float64 {
	out := make([]float64, s.Len())
	if s == nil {
		return out
	}
	for i, o := range s.Observations {
		out[i] = o.Value
	}
	return out
}

// Dates returns a copy of the date column.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, s.Len())
	if s == nil {
		return out
	}
	for i, o := range s.Observations {
		out[i] = o.Date
	}
	return out
}

// IsSorted reports whether observations are in ascending date order.
func (s *Series) IsSorted() bool {
	return sort.SliceIsSorted(s.Observations, func(i, j int) bool {
		return s.Observations[i].Date.Before(s.Observations[j].Date)
	})
}

// SortedByDate returns a date-ascending copy. Equal dates keep file order.
func (s *Series) SortedByDate() []Observation {
	out := make([]Observation, s.Len())
	copy(out, s.Observations)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Span returns the first and last dates of the series regardless of order.
func (s *Series) Span() (first, last time.Time) {
	for i, o := range s.Observations {
		if i == 0 || o.Date.Before(first) {
			first = o.Date
		}
		if i == 0 || o.Date.After(last) {
			last = o.Date
		}
	}
	return first, last
}
