// Package dataset loads the daily page-view table.
//
// A Series keeps observations in the order they appear in the source file;
// nothing here sorts, deduplicates or filters rows. Input is either CSV or an
// Excel workbook, chosen by file extension:
//
//	series, err := dataset.Load("fcc-forum-pageviews.csv", dataset.DefaultLoadOptions())
//
// Any missing column, unparseable date or unparseable value aborts the load
// with a PARSING AppError that carries the offending row number.
package dataset
