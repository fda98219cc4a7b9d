package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
}

// ProcessingConfig controls how punches are interpreted
type ProcessingConfig struct {
	// LateCutoffMinutes is minutes past midnight; an in-time strictly after it is late.
	LateCutoffMinutes int    `yaml:"late_cutoff_minutes" envconfig:"LATE_CUTOFF_MINUTES" validate:"min=1,max=1439"`
	Layout            string `yaml:"layout" envconfig:"LAYOUT" validate:"oneof=blocks flat"`
}

// ExportConfig controls rendered reports
type ExportConfig struct {
	Title            string   `yaml:"title" envconfig:"TITLE" validate:"required"`
	Formats          []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=xlsx pdf csv json"`
	FilePrefix       string   `yaml:"file_prefix" envconfig:"FILE_PREFIX" validate:"required"`
	LatePenaltyEvery int      `yaml:"late_penalty_every" envconfig:"LATE_PENALTY_EVERY" validate:"min=1"`
	LatePenaltyDays  string   `yaml:"late_penalty_days" envconfig:"LATE_PENALTY_DAYS" validate:"required,numeric"`
}

// PenaltyDays parses LatePenaltyDays.
func (e ExportConfig) PenaltyDays() (decimal.Decimal, error) {
	return decimal.NewFromString(e.LatePenaltyDays)
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"` // relative paths resolve inside Paths.LogsDir
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// EnvPrefix namespaces every environment variable, e.g. PUNCH_EXPORT_TITLE.
const EnvPrefix = "PUNCH"

// ConfigFileEnv names an explicit config file.
const ConfigFileEnv = "PUNCH_CONFIG_FILE"

var validate = validator.New()

// Load loads configuration from defaults, an optional YAML file, a .env
// file and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using configFile instead of searching for
// one. An empty configFile means defaults and environment only.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads path when it exists. Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) normalize() {
	c.Processing.Layout = strings.ToLower(strings.TrimSpace(c.Processing.Layout))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Telemetry.TraceExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.TraceExporter))
	for i, f := range c.Export.Formats {
		c.Export.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	days, err := c.Export.PenaltyDays()
	if err != nil {
		return fmt.Errorf("invalid late penalty days %q: %w", c.Export.LatePenaltyDays, err)
	}
	if days.IsNegative() {
		return fmt.Errorf("late penalty days must not be negative: %s", days)
	}
	return nil
}

// HasFormat reports whether format is enabled for export
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Export.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"punch.yaml",
		"configs/punch.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Processing: ProcessingConfig{
			LateCutoffMinutes: DefaultLateCutoffMinutes,
			Layout:            LayoutBlocks,
		},
		Export: ExportConfig{
			Title:            DefaultReportTitle,
			Formats:          []string{FormatXLSX},
			FilePrefix:       DefaultFilePrefix,
			LatePenaltyEvery: DefaultLatePenaltyEvery,
			LatePenaltyDays:  DefaultLatePenaltyDays,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "local",
			TraceExporter: "none",
			EnableMetrics: true,
		},
		Paths: PathsConfig{
			OutputDir: DefaultReportsDir,
			LogsDir:   DefaultLogsDir,
		},
	}
}
