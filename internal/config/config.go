package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input      InputConfig      `yaml:"input" mapstructure:"input"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Layout     LayoutConfig     `yaml:"layout" mapstructure:"layout"`
	Filter     FilterConfig     `yaml:"filter" mapstructure:"filter"`
	Convert    ConvertConfig    `yaml:"convert" mapstructure:"convert"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the raw facility and runway exports. When XLSXFile is
// set both sheets are read from the workbook instead of the CSV files.
type InputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	AirportsFile  string `yaml:"airports_file" mapstructure:"airports_file"`
	RunwaysFile   string `yaml:"runways_file" mapstructure:"runways_file"`
	XLSXFile      string `yaml:"xlsx_file" mapstructure:"xlsx_file"`
	AirportsSheet string `yaml:"airports_sheet" mapstructure:"airports_sheet"`
	RunwaysSheet  string `yaml:"runways_sheet" mapstructure:"runways_sheet"`
}

// OutputConfig locates the normalized CSV outputs and the optional shapefile.
type OutputConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	AirportsFile string `yaml:"airports_file" mapstructure:"airports_file"`
	RunwaysFile  string `yaml:"runways_file" mapstructure:"runways_file"`
	Shapefile    string `yaml:"shapefile" mapstructure:"shapefile"`
}

// LayoutConfig selects how raw columns are located: "position" uses fixed
// column indexes (defaults, or File), "header" resolves them by name.
type LayoutConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
	File string `yaml:"file" mapstructure:"file"`
}

// FilterConfig holds the admission criteria.
type FilterConfig struct {
	FacilityKind    string   `yaml:"facility_kind" mapstructure:"facility_kind"`
	Use             string   `yaml:"use" mapstructure:"use"`
	SurfacePrefixes []string `yaml:"surface_prefixes" mapstructure:"surface_prefixes"`
	MinRunwayLength int      `yaml:"min_runway_length" mapstructure:"min_runway_length"`
}

// ConvertConfig tunes the synchronizer.
type ConvertConfig struct {
	StrictOrder bool `yaml:"strict_order" mapstructure:"strict_order"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// FetchConfig configures downloads of the NASR subscription files.
type FetchConfig struct {
	URLs        []string `yaml:"urls" mapstructure:"urls"`
	DestDir     string   `yaml:"dest_dir" mapstructure:"dest_dir"`
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int      `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string   `yaml:"user_agent" mapstructure:"user_agent"`
}

// MetricsConfig points at a node_exporter textfile collector file.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// MonitoringConfig configures run-health alerts.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	LookbackWindowHours  int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	StaleAfterHours      int     `yaml:"stale_after_hours" mapstructure:"stale_after_hours"`
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AIRPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.dir", ".")
	v.SetDefault("input.airports_file", "all_airports.csv")
	v.SetDefault("input.runways_file", "all_runways.csv")
	v.SetDefault("input.xlsx_file", "")
	v.SetDefault("input.airports_sheet", "Airports")
	v.SetDefault("input.runways_sheet", "Runways")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.airports_file", "airports.csv")
	v.SetDefault("output.runways_file", "runways.csv")
	v.SetDefault("output.shapefile", "")
	v.SetDefault("layout.mode", "position")
	v.SetDefault("layout.file", "")
	v.SetDefault("filter.facility_kind", "AIRPORT")
	v.SetDefault("filter.use", "PU")
	v.SetDefault("filter.surface_prefixes", []string{"ASPH", "CONC"})
	v.SetDefault("filter.min_runway_length", 2000)
	v.SetDefault("convert.strict_order", false)
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "nasr.db")
	v.SetDefault("store.batch_size", 5000)
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("fetch.urls", []string{})
	v.SetDefault("fetch.dest_dir", "data")
	v.SetDefault("fetch.concurrency", 4)
	v.SetDefault("fetch.timeout_secs", 300)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "airport-cli/1.0")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("monitoring.webhook_url", "")
	v.SetDefault("monitoring.lookback_window_hours", 168)
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)
	v.SetDefault("monitoring.stale_after_hours", 24*35)
	v.SetDefault("monitoring.check_interval_secs", 3600)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on and reports every
// problem at once.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Layout.Mode {
	case "position", "header":
	default:
		errs = append(errs, fmt.Sprintf("layout.mode must be position or header, got %q", c.Layout.Mode))
	}
	if c.Filter.MinRunwayLength < 0 {
		errs = append(errs, "filter.min_runway_length must be >= 0")
	}

	switch mode {
	case "convert":
		if c.Output.Dir == "" {
			errs = append(errs, "output.dir is required")
		}
	case "load":
		switch c.Store.Driver {
		case "postgres":
			if c.Store.DatabaseURL == "" {
				errs = append(errs, "store.database_url is required")
			}
		case "sqlite":
			if c.Store.SQLitePath == "" {
				errs = append(errs, "store.sqlite_path is required")
			}
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be postgres or sqlite, got %q", c.Store.Driver))
		}
	case "migrate", "runs", "check":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	case "fetch":
		if c.Fetch.Concurrency < 1 || c.Fetch.Concurrency > 16 {
			errs = append(errs, "fetch.concurrency must be between 1 and 16")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
