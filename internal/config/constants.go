package config

// Application constants
const (
	// Application Info
	AppName    = "pageviews"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. PAGEVIEWS_INPUT_PATH
	EnvPrefix = "PAGEVIEWS"

	// Input
	DefaultInputFile = "fcc-forum-pageviews.csv"

	// Outlier removal
	DefaultLowerQuantile = 0.025
	DefaultUpperQuantile = 0.975

	// Chart artifacts, overwritten on every run
	LinePlotFile = "line_plot.png"
	BarPlotFile  = "bar_plot.png"
	BoxPlotFile  = "box_plot.png"

	// Optional exports
	MonthlyMeansCSVFile  = "monthly_means.csv"
	MonthlyMeansXLSXFile = "monthly_means.xlsx"
	CleanedCSVFile       = "cleaned_pageviews.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/pageviews.log"
)

// ConfigFileLocations are searched in order when PAGEVIEWS_CONFIG is unset
var ConfigFileLocations = []string{
	"pageviews.yaml",
	"configs/pageviews.yaml",
}
