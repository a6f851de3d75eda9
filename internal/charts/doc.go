// Package charts renders the three page-view charts from a cleaned series.
//
// Every builder is a pure function of a *cleaning.CleanedSeries returning a
// Figure: the line plot uses go-chart, the grouped bar chart and the box
// plots use gonum/plot. Visualizer binds one cleaned series and an output
// directory and exposes DrawLinePlot, DrawBarPlot and DrawBoxPlot, each of
// which persists its PNG and returns the in-memory figure.
package charts
