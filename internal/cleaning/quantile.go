package cleaning

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile of values using linear interpolation
// between the closest ranks of the sorted data: h = q*(n-1), then
// x[floor(h)] + (h-floor(h))*(x[ceil(h)]-x[floor(h)]). q is clamped to
// [0, 1]. An empty input yields NaN. values is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

// quantileSorted is Quantile for input that is already ascending.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}
