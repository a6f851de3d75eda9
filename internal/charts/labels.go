package charts

import (
	"pageviews/internal/calendar"
	"pageviews/internal/cleaning"
	"pageviews/internal/dataset"
)

// LabeledObservation is a cleaned row with its derived box-plot categories.
type LabeledObservation struct {
	dataset.Observation
	Year        int
	MonthAbbrev string
}

// LabelObservations derives year and three-letter month labels per row,
// preserving input order.
func LabelObservations(cleaned *cleaning.CleanedSeries) []LabeledObservation {
	observations := cleaned.Observations()
	out := make([]LabeledObservation, len(observations))
	for i, o := range observations {
		out[i] = LabeledObservation{
			Observation: o,
			Year:        o.Date.Year(),
			MonthAbbrev: calendar.Abbrev(o.Date.Month()),
		}
	}
	return out
}
