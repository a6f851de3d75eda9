package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"pageviews/internal/dataset"
)

// ForumStart is the first day of the forum page-view export.
var ForumStart = time.Date(2016, time.May, 9, 0, 0, 0, 0, time.UTC)

// Day returns the UTC midnight for y-m-d.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyObservations returns one observation per day from start, with the
// given values in order.
func DailyObservations(start time.Time, values ...float64) []dataset.Observation {
	obs := make([]dataset.Observation, len(values))
	for i, v := range values {
		obs[i] = dataset.Observation{Date: start.AddDate(0, 0, i), Value: v}
	}
	return obs
}

// SeasonalSeries builds a deterministic daily series of n days from start
// with an upward trend and a yearly cycle, like the forum traffic.
func SeasonalSeries(start time.Time, days int) *dataset.Series {
	s := &dataset.Series{Source: "synthetic"}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		trend := 20000 + 40*float64(i)
		season := 8000 * math.Sin(2*math.Pi*float64(date.YearDay())/365)
		// deterministic jitter in [-1500, 1500)
		jitter := float64((i*7919)%3000) - 1500
		s.Observations = append(s.Observations, dataset.Observation{
			Date:  date,
			Value: math.Round(trend + season + jitter),
		})
	}
	return s
}

// WithSpike returns a copy of s with the value at index i replaced.
func WithSpike(s *dataset.Series, i int, value float64) *dataset.Series {
	out := &dataset.Series{Source: s.Source, Observations: make([]dataset.Observation, len(s.Observations))}
	copy(out.Observations, s.Observations)
	out.Observations[i].Value = value
	return out
}

// CSV renders observations as a date,value CSV document.
func CSV(obs []dataset.Observation) string {
	var b strings.Builder
	b.WriteString("date,value\n")
	for _, o := range obs {
		fmt.Fprintf(&b, "%s,%s\n", o.Date.Format("2006-01-02"), strconv.FormatFloat(o.Value, 'f', -1, 64))
	}
	return b.String()
}

// WriteCSV writes observations to name inside a fresh temp dir and returns
// the file path.
func WriteCSV(t *testing.T, name string, obs []dataset.Observation) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(CSV(obs)), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
