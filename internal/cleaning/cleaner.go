package cleaning

import (
	"fmt"
	"math"
	"sort"

	"pageviews/internal/dataset"
)

// Default quantile levels for outlier removal.
const (
	DefaultLowerQuantile = 0.025
	DefaultUpperQuantile = 0.975
)

// Bounds are the quantile levels and the value cut-offs derived from them.
type Bounds struct {
	LowerQuantile float64
	UpperQuantile float64
	Lower         float64
	Upper         float64
}

// Contains reports whether v lies inside the inclusive range.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// CleanedSeries is the outlier-free snapshot every chart reads. It is never
// modified after Clean returns; accessors hand out copies.
type CleanedSeries struct {
	source       string
	observations []dataset.Observation
	bounds       Bounds
	inputLen     int
}

// Options selects the quantile levels used by Clean.
type Options struct {
	LowerQuantile float64
	UpperQuantile float64
}

// DefaultOptions returns the 2.5% / 97.5% split.
func DefaultOptions() Options {
	return Options{LowerQuantile: DefaultLowerQuantile, UpperQuantile: DefaultUpperQuantile}
}

// Validate checks 0 <= lower < upper <= 1.
func (o Options) Validate() error {
	if math.IsNaN(o.LowerQuantile) || math.IsNaN(o.UpperQuantile) {
		return fmt.Errorf("quantile levels must be numbers")
	}
	if o.LowerQuantile < 0 || o.UpperQuantile > 1 {
		return fmt.Errorf("quantile levels must lie in [0, 1], got %v and %v", o.LowerQuantile, o.UpperQuantile)
	}
	if o.LowerQuantile >= o.UpperQuantile {
		return fmt.Errorf("lower quantile %v must be below upper quantile %v", o.LowerQuantile, o.UpperQuantile)
	}
	return nil
}

// Clean computes both cut-offs once over the whole series and keeps the rows
// whose value lies within them, both ends inclusive, in their original order.
func Clean(series *dataset.Series, opts Options) (*CleanedSeries, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if series == nil {
		series = &dataset.Series{}
	}

	values := series.Values()
	sort.Float64s(values)

	bounds := Bounds{
		LowerQuantile: opts.LowerQuantile,
		UpperQuantile: opts.UpperQuantile,
		Lower:         quantileSorted(values, opts.LowerQuantile),
		Upper:         quantileSorted(values, opts.UpperQuantile),
	}

	kept := make([]dataset.Observation, 0, series.Len())
	for _, o := range series.Observations {
		if bounds.Contains(o.Value) {
			kept = append(kept, o)
		}
	}

	return &CleanedSeries{
		source:       series.Source,
		observations: kept,
		bounds:       bounds,
		inputLen:     series.Len(),
	}, nil
}

// NewCleanedSeries wraps observations that are already known to be clean,
// with bounds spanning their own range. Charts built from synthetic data in
// tests use it.
func NewCleanedSeries(source string, observations []dataset.Observation) *CleanedSeries {
	obs := make([]dataset.Observation, len(observations))
	copy(obs, observations)

	bounds := Bounds{LowerQuantile: 0, UpperQuantile: 1, Lower: math.NaN(), Upper: math.NaN()}
	for i, o := range obs {
		if i == 0 || o.Value < bounds.Lower {
			bounds.Lower = o.Value
		}
		if i == 0 || o.Value > bounds.Upper {
			bounds.Upper = o.Value
		}
	}
	return &CleanedSeries{source: source, observations: obs, bounds: bounds, inputLen: len(obs)}
}

// Len returns the number of retained observations.
func (c *CleanedSeries) Len() int { return len(c.observations) }

// InputLen returns the size of the series Clean was given.
func (c *CleanedSeries) InputLen() int { return c.inputLen }

// Dropped returns how many observations fell outside the bounds.
func (c *CleanedSeries) Dropped() int { return c.inputLen - len(c.observations) }

// Bounds returns the cut-offs used.
func (c *CleanedSeries) Bounds() Bounds { return c.bounds }

// Source names the file the data came from.
func (c *CleanedSeries) Source() string { return c.source }

// Observations returns a copy of the retained rows in input order.
func (c *CleanedSeries) Observations() []dataset.Observation {
	out := make([]dataset.Observation, len(c.observations))
	copy(out, c.observations)
	return out
}

// Series returns the retained rows as a new dataset.Series.
func (c *CleanedSeries) Series() *dataset.Series {
	return &dataset.Series{Source: c.source, Observations: c.Observations()}
}
