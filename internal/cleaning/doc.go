// Package cleaning removes outliers from a loaded page-view series.
//
// Clean computes the lower and upper quantiles of the value column once over
// the full series, then keeps every row inside that inclusive range. The
// result, a CleanedSeries, is the single read-only snapshot shared by all
// charts:
//
//	cleaned, err := cleaning.Clean(series, cleaning.DefaultOptions())
//
// Quantiles use linear interpolation between closest ranks, the definition
// used by most spreadsheet and dataframe tools. Rows close to a cut-off may
// differ from tools using another quantile estimator.
package cleaning
