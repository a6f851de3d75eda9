package charts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageviews/internal/cleaning"
	"pageviews/internal/dataset"
	"pageviews/internal/shared/testutil"
)

func cleanedOf(obs ...dataset.Observation) *cleaning.CleanedSeries {
	return cleaning.NewCleanedSeries("test", obs)
}

func obs(y int, m time.Month, d int, v float64) dataset.Observation {
	return dataset.Observation{Date: testutil.Day(y, m, d), Value: v}
}

func TestAggregateMonthly_SingleMonth(t *testing.T) {
	table := AggregateMonthly(cleanedOf(
		obs(2016, time.May, 9, 1201),
		obs(2016, time.May, 10, 2329),
		obs(2016, time.May, 19, 1716),
	))

	assert.Equal(t, []int{2016}, table.Years)
	assert.Equal(t, []time.Month{time.May}, table.Months)
	assert.Equal(t, []string{"May"}, table.Columns())

	mean, ok := table.Mean(2016, time.May)
	require.True(t, ok)
	assert.InDelta(t, 1748.67, mean, 0.005)
}

func TestAggregateMonthly_CalendarOrderNotFirstSeen(t *testing.T) {
	table := AggregateMonthly(cleanedOf(
		obs(2018, time.December, 1, 10),
		obs(2017, time.March, 1, 20),
		obs(2018, time.January, 1, 30),
		obs(2017, time.October, 1, 40),
		obs(2016, time.July, 4, 50),
	))

	assert.Equal(t, []int{2016, 2017, 2018}, table.Years)
	assert.Equal(t,
		[]time.Month{time.January, time.March, time.July, time.October, time.December},
		table.Months)
	assert.Equal(t, []string{"January", "March", "July", "October", "December"}, table.Columns())
}

func TestAggregateMonthly_FullYearHasTwelveColumns(t *testing.T) {
	table := AggregateMonthly(cleaning.NewCleanedSeries("s", testutil.SeasonalSeries(testutil.Day(2017, time.January, 1), 365).Observations))

	require.Len(t, table.Months, 12)
	for i, m := range table.Months {
		assert.Equal(t, time.Month(i+1), m)
	}
	assert.Equal(t, []int{2017}, table.Years)
}

func TestAggregateMonthly_MissingCellsAreNaN(t *testing.T) {
	table := AggregateMonthly(cleanedOf(
		obs(2016, time.May, 1, 100),
		obs(2016, time.May, 2, 300),
		obs(2017, time.June, 1, 50),
	))

	require.Len(t, table.Means, 2)
	assert.Equal(t, 200.0, table.Means[0][0])
	assert.True(t, math.IsNaN(table.Means[0][1]))
	assert.True(t, math.IsNaN(table.Means[1][0]))
	assert.Equal(t, 50.0, table.Means[1][1])

	_, ok := table.Mean(2016, time.June)
	assert.False(t, ok)
	_, ok = table.Mean(2020, time.May)
	assert.False(t, ok)
	_, ok = table.Mean(2016, time.August)
	assert.False(t, ok)
}

func TestAggregateMonthly_Empty(t *testing.T) {
	table := AggregateMonthly(cleanedOf())

	assert.True(t, table.Empty())
	assert.Empty(t, table.Years)
	assert.Empty(t, table.Months)
}

func TestLabelObservations(t *testing.T) {
	rows := LabelObservations(cleanedOf(
		obs(2019, time.December, 31, 5),
		obs(2016, time.May, 9, 7),
	))

	require.Len(t, rows, 2)
	assert.Equal(t, 2019, rows[0].Year)
	assert.Equal(t, "Dec", rows[0].MonthAbbrev)
	assert.Equal(t, 5.0, rows[0].Value)
	assert.Equal(t, "May", rows[1].MonthAbbrev)
}
