// Package calendar holds the single month lookup shared by the bar and box
// charts so that month labels and their order never diverge.
package calendar

import (
	"strings"
	"time"
)

// month pairs a calendar month with its display names
type month struct {
	Number time.Month
	Abbrev string
	Full   string
}

// calendarOrder is January..December. Every ordered month list in the module
// is derived from this table.
var calendarOrder = [12]month{
	{time.January, "Jan", "January"},
	{time.February, "Feb", "February"},
	{time.March, "Mar", "March"},
	{time.April, "Apr", "April"},
	{time.May, "May", "May"},
	{time.June, "Jun", "June"},
	{time.July, "Jul", "July"},
	{time.August, "Aug", "August"},
	{time.September, "Sep", "September"},
	{time.October, "Oct", "October"},
	{time.November, "Nov", "November"},
	{time.December, "Dec", "December"},
}

// Months returns the twelve months in calendar order.
func Months() []time.Month {
	out := make([]time.Month, len(calendarOrder))
	for i, m := range calendarOrder {
		out[i] = m.Number
	}
	return out
}

// Abbreviations returns "Jan".."Dec" in calendar order.
func Abbreviations() []string {
	out := make([]string, len(calendarOrder))
	for i, m := range calendarOrder {
		out[i] = m.Abbrev
	}
	return out
}

// Abbrev returns the three-letter English abbreviation of m, or "" when m is
// not a calendar month.
func Abbrev(m time.Month) string {
	if !valid(m) {
		return ""
	}
	return calendarOrder[m-1].Abbrev
}

// FullName returns the English name of m, or "" when m is not a calendar month.
func FullName(m time.Month) string {
	if !valid(m) {
		return ""
	}
	return calendarOrder[m-1].Full
}

// FullNames maps months to their English names, preserving order.
func FullNames(months []time.Month) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = FullName(m)
	}
	return out
}

// ParseAbbrev resolves a three-letter abbreviation, case-insensitively.
func ParseAbbrev(s string) (time.Month, bool) {
	for _, m := range calendarOrder {
		if strings.EqualFold(m.Abbrev, strings.TrimSpace(s)) {
			return m.Number, true
		}
	}
	return 0, false
}

// Index returns the zero-based calendar position of m, or -1.
func Index(m time.Month) int {
	if !valid(m) {
		return -1
	}
	return int(m) - 1
}

func valid(m time.Month) bool {
	return m >= time.January && m <= time.December
}
