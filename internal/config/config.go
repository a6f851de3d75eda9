package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "pageviews/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Cleaning  CleaningConfig  `yaml:"cleaning"`
	Output    OutputConfig    `yaml:"output"`
	Run       RunConfig       `yaml:"run"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// InputConfig describes the page-view table to load
type InputConfig struct {
	Path        string `yaml:"path" validate:"required"`
	DateColumn  string `yaml:"date_column" split_words:"true" validate:"required"`
	ValueColumn string `yaml:"value_column" split_words:"true" validate:"required,nefield=DateColumn"`
	DateLayout  string `yaml:"date_layout" split_words:"true"`
	Sheet       string `yaml:"sheet"`
}

// CleaningConfig holds the quantile levels for outlier removal
type CleaningConfig struct {
	LowerQuantile float64 `yaml:"lower_quantile" split_words:"true" validate:"gte=0,lt=1,ltfield=UpperQuantile"`
	UpperQuantile float64 `yaml:"upper_quantile" split_words:"true" validate:"gt=0,lte=1"`
}

// OutputConfig controls where charts and exports are written
type OutputConfig struct {
	Dir             string `yaml:"dir" validate:"required"`
	ExportSummaries bool   `yaml:"export_summaries" split_words:"true"`
}

// RunConfig controls pipeline execution
type RunConfig struct {
	Parallel bool `yaml:"parallel"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" validate:"oneof=json text"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" split_words:"true" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" split_words:"true" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" split_words:"true"`
}

// Load loads configuration from defaults, the first config file found, and
// environment variables, in increasing order of precedence
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file; an empty path skips the file
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file keep
// their current value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file, or "" if none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their YAML names, e.g. cleaning.lower_quantile
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks field constraints and returns a CONFIG AppError listing
// every violation
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err)
	}

	messages := make([]string, 0, len(verrs))
	appErr := apperrors.NewConfigError("config validation failed", nil)
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		msg := formatValidationError(fe)
		messages = append(messages, fmt.Sprintf("%s %s", field, msg))
		appErr.WithContext(field, msg)
	}
	appErr.Message = "config validation failed: " + strings.Join(messages, "; ")

	return appErr
}

// formatValidationError turns a validator failure into a short message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be < %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "ltfield":
		return fmt.Sprintf("must be below %s", fe.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:        DefaultInputFile,
			DateColumn:  "date",
			ValueColumn: "value",
			DateLayout:  "2006-01-02",
		},
		Cleaning: CleaningConfig{
			LowerQuantile: DefaultLowerQuantile,
			UpperQuantile: DefaultUpperQuantile,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Run: RunConfig{
			Parallel: true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
	}
}
