package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthsInCalendarOrder(t *testing.T) {
	months := Months()
	assert.Len(t, months, 12)
	for i, m := range months {
		assert.Equal(t, time.Month(i+1), m)
	}
}

func TestAbbreviations(t *testing.T) {
	assert.Equal(t,
		[]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Abbreviations())
}

func TestNamesAgreeWithTimePackage(t *testing.T) {
	for _, m := range Months() {
		assert.Equal(t, m.String(), FullName(m))
		assert.Equal(t, m.String()[:3], Abbrev(m))
	}
}

func TestOutOfRange(t *testing.T) {
	assert.Equal(t, "", Abbrev(0))
	assert.Equal(t, "", FullName(13))
	assert.Equal(t, -1, Index(13))
	assert.Equal(t, 4, Index(time.May))
}

func TestFullNames(t *testing.T) {
	assert.Equal(t, []string{"May", "December"}, FullNames([]time.Month{time.May, time.December}))
}

func TestParseAbbrev(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Month
		wantOK bool
	}{
		{"Jan", time.January, true},
		{"sep", time.September, true},
		{" Dec ", time.December, true},
		{"Sept", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAbbrev(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
