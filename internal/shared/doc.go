// Package shared holds code used across the pageviews packages that
// belongs to no single step of the pipeline.
//
// The testutil subpackage provides deterministic page-view fixtures and a
// buffered slog handler for asserting on log output:
//
//	func TestSomething(t *testing.T) {
//		logger, handler := testutil.NewTestLogger(t)
//		path := testutil.WriteCSV(t, "pageviews.csv", testutil.DailyObservations(testutil.ForumStart, 10, 20))
//		// ...
//		testutil.AssertNoErrors(t, handler)
//	}
package shared
