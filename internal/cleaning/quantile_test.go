package cleaning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	oneToHundred := make([]float64, 100)
	for i := range oneToHundred {
		oneToHundred[i] = float64(i + 1)
	}

	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{name: "median odd", values: []float64{3, 1, 2}, q: 0.5, want: 2},
		{name: "median even interpolates", values: []float64{4, 1, 3, 2}, q: 0.5, want: 2.5},
		{name: "lower 2.5 of 1..100", values: oneToHundred, q: 0.025, want: 3.475},
		{name: "upper 97.5 of 1..100", values: oneToHundred, q: 0.975, want: 97.525},
		{name: "three rows lower", values: []float64{1201, 2329, 1716}, q: 0.025, want: 1226.75},
		{name: "three rows upper", values: []float64{1201, 2329, 1716}, q: 0.975, want: 2298.35},
		{name: "q zero is minimum", values: []float64{5, 9, 7}, q: 0, want: 5},
		{name: "q one is maximum", values: []float64{5, 9, 7}, q: 1, want: 9},
		{name: "q clamped below", values: []float64{5, 9, 7}, q: -0.5, want: 5},
		{name: "q clamped above", values: []float64{5, 9, 7}, q: 1.5, want: 9},
		{name: "single value", values: []float64{42}, q: 0.3, want: 42},
		{name: "all equal", values: []float64{8, 8, 8, 8}, q: 0.025, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.q), 1e-9)
		})
	}
}

func TestQuantile_Empty(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuantile_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
