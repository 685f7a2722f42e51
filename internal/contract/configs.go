package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/expendo-io/expendo/schema"
)

// Default values for configuration.
const (
	DefaultGrain      = 1 // sample every day
	MaxGrain          = 28
	DefaultPrecision  = 1
	DefaultConfidence = 5.0
	DefaultMinLength  = 3
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for an analytics run.
// This struct is the final, validated config.
type Config struct {
	// Tracker access
	Queues  []string
	Token   string
	OrgID   string
	BaseURL string

	// Series selection
	Kind       schema.SeriesKind
	Categories []string // empty means all known categories
	StartDate  time.Time
	EndDate    time.Time
	BaseDate   time.Time // sprint grid anchor
	Grain      int       // days per sample
	DV         bool      // first-difference the series

	// Segmentation
	MinLength   int
	Confidence  float64
	NoiseMethod string

	// Projection
	Row         string
	Clamp       string
	ProjectFrom time.Time

	// Output
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // terminal width override (0 = auto-detect)
	UseColors  bool

	Workers int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // please use env var as this is plaintext

	// Raw period strings, resolved against tracker data during setup.
	PeriodFrom string
	PeriodTo   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// Set manually from positional args, so no tag.
	QueueArgs []string

	Token   string `mapstructure:"token"`
	OrgID   string `mapstructure:"org"`
	BaseURL string `mapstructure:"base-url"`
	Queues  string `mapstructure:"queues"`

	Kind       string `mapstructure:"kind"`
	Categories string `mapstructure:"categories"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	Base       string `mapstructure:"base"`
	Grain      int    `mapstructure:"grain"`
	DV         bool   `mapstructure:"dv"`

	MinLength   int     `mapstructure:"min-length"`
	Confidence  float64 `mapstructure:"confidence"`
	NoiseMethod string  `mapstructure:"noise-method"`

	Row         string `mapstructure:"row"`
	Clamp       string `mapstructure:"clamp"`
	ProjectFrom string `mapstructure:"project-from"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	Workers int `mapstructure:"workers"`

	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Queues != nil {
		clone.Queues = make([]string, len(c.Queues))
		copy(clone.Queues, c.Queues)
	}
	if c.Categories != nil {
		clone.Categories = make([]string, len(c.Categories))
		copy(clone.Categories, c.Categories)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. Period strings are kept raw here and
// resolved by the core once the earliest tracker date is known.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateTrackerInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSeriesInputs(cfg, input); err != nil {
		return err
	}
	if err := validateAnalysisInputs(cfg, input); err != nil {
		return err
	}
	return validateOutputInputs(cfg, input)
}

// validateTrackerInputs processes queue list and tracker credentials.
func validateTrackerInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Queues = append([]string{}, input.QueueArgs...)
	for part := range strings.SplitSeq(input.Queues, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cfg.Queues = append(cfg.Queues, trimmed)
		}
	}
	if len(cfg.Queues) == 0 {
		return fmt.Errorf("at least one tracker queue is required (positional args or --queues)")
	}

	cfg.Token = input.Token
	cfg.OrgID = input.OrgID
	cfg.BaseURL = input.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.tracker.yandex.net"
	}
	return nil
}

// validateSeriesInputs processes kind, categories, grain and period anchors.
func validateSeriesInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Kind = schema.SeriesKind(strings.ToLower(input.Kind))
	if _, ok := schema.ValidSeriesKinds[cfg.Kind]; !ok {
		return fmt.Errorf("invalid kind %q: must be estimate, spent, original, burn", input.Kind)
	}

	for part := range strings.SplitSeq(input.Categories, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cfg.Categories = append(cfg.Categories, trimmed)
		}
	}

	if input.Grain < 1 || input.Grain > MaxGrain {
		return fmt.Errorf("grain must be between 1 and %d days (received %d)", MaxGrain, input.Grain)
	}
	cfg.Grain = input.Grain
	cfg.DV = input.DV

	today := time.Now().UTC().Truncate(24 * time.Hour)
	cfg.BaseDate = today
	if input.Base != "" {
		base, err := time.Parse(schema.DateFormat, input.Base)
		if err != nil {
			return fmt.Errorf("invalid base date %q: use DD.MM.YY", input.Base)
		}
		cfg.BaseDate = base
	}

	// End date is resolvable now; the start may need the earliest tracker
	// date ("all"), so only syntax is checked here.
	end, err := ParseEndDate(input.To, today)
	if err != nil {
		return err
	}
	cfg.EndDate = end
	if _, err := ParseStartDate(input.From, end, input.Grain, end, today); err != nil {
		return err
	}
	cfg.PeriodFrom = input.From
	cfg.PeriodTo = input.To
	return nil
}

// validateAnalysisInputs processes segmentation and projection parameters.
func validateAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	if input.MinLength < 1 {
		return fmt.Errorf("min-length must be at least 1 (received %d)", input.MinLength)
	}
	cfg.MinLength = input.MinLength

	if input.Confidence <= 0 {
		return fmt.Errorf("confidence must be greater than 0 (received %g)", input.Confidence)
	}
	cfg.Confidence = input.Confidence

	cfg.NoiseMethod = strings.ToLower(input.NoiseMethod)
	if _, ok := schema.ValidNoiseMethods[cfg.NoiseMethod]; !ok {
		return fmt.Errorf("invalid noise method %q: must be residuals, differences, or residuals_smooth", input.NoiseMethod)
	}

	cfg.Row = input.Row
	cfg.Clamp = strings.ToLower(input.Clamp)
	if _, ok := schema.ValidClampDirections[cfg.Clamp]; !ok {
		return fmt.Errorf("invalid clamp direction %q: must be none, down, or up", input.Clamp)
	}
	if input.ProjectFrom != "" {
		from, err := time.Parse(schema.DateFormat, input.ProjectFrom)
		if err != nil {
			return fmt.Errorf("invalid project-from date %q: use DD.MM.YY", input.ProjectFrom)
		}
		cfg.ProjectFrom = from
	}

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers
	return nil
}

// validateOutputInputs processes output format, precision and cache backend.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format %q: must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend %q: must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
