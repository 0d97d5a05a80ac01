package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from a YAML file,
// with environment-variable overrides for the database connection.
//
// Example YAML:
//
//	date_range:
//	  start_date: "2024-01-01"
//	  end_date: "2024-01-31"
//	generation:
//	  trades_per_day: 25
//	  seed: 0
//	securities:
//	  - ticker: AAPL
//	    base_price: "150.0"
//	    volatility: 0.02
//	scenario_toggles:
//	  layering: true
//	  wash_trading: true
//	  spoofing: true
//	  momentum_ignition: true
//	output:
//	  trades_file: data/output/trades_data.json
//	  counterparties_file: data/output/counterparty_data.json
//	  sql_file: data/output/detection_queries.sql
//	execution_mode:
//	  mode: local_only
//	  batch_size: 500
//	  test_mode: 0
//	database:
//	  host: localhost
//	  port: 5432
//	  dbname: xtdb
//	  user: xtdb
//	  password: password
//	  sslmode: disable
type Config struct {
	DateRange  DateRangeConfig  // simulated calendar window (closed interval)
	Generation GenerationConfig // trade volume and randomness controls
	Securities []SecurityConfig // optional universe override
	Scenarios  ScenarioToggles  // which manipulation patterns to synthesize
	Output     OutputConfig     // file destinations for generated documents
	Execution  ExecutionConfig  // local_only vs full (database) run
	Database   DatabaseConfig   // XTDB connection (Postgres wire protocol)
}

// DateRangeConfig bounds the simulated timeline.
type DateRangeConfig struct {
	StartDate time.Time
	EndDate   time.Time
}

// GenerationConfig controls trade volume and reproducibility.
//
// TradesPerDay is the per-day ceiling; values <= 0 fall back to the
// generator default. Seed 0 means a time-derived seed (non-reproducible).
type GenerationConfig struct {
	TradesPerDay int
	Seed         int64
}

// SecurityConfig is one configured instrument. BasePrice is kept as a string
// so it reaches the generator without passing through binary floating point.
type SecurityConfig struct {
	Ticker     string  `mapstructure:"ticker"`
	BasePrice  string  `mapstructure:"base_price"`
	Volatility float64 `mapstructure:"volatility"`
}

// ScenarioToggles enables or disables individual manipulation scenarios.
type ScenarioToggles struct {
	Layering         bool
	WashTrading      bool
	Spoofing         bool
	MomentumIgnition bool
}

// OutputConfig holds destinations for the generated document files.
type OutputConfig struct {
	TradesFile         string
	CounterpartiesFile string
	SQLFile            string
}

// ExecutionConfig selects the run mode.
//
// Mode "local_only" generates files and stops; "full" also ingests into XTDB
// and runs the detection queries. TestMode > 0 caps the number of records
// ingested (generation to files is always complete).
type ExecutionConfig struct {
	Mode      string
	BatchSize int
	TestMode  int
}

// DatabaseConfig defines connection details for XTDB's Postgres wire server.
type DatabaseConfig struct {
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
	SSLMode  string
	URL      string // computed DSN used by database/sql
}

// AppConfig is the globally accessible configuration instance,
// populated once via LoadConfig().
var AppConfig Config

const dateLayout = "2006-01-02"

// LoadConfig populates AppConfig from the YAML file at path.
//
// Precedence (lowest to highest):
//  1. Defaults set in this function.
//  2. Values from the YAML file.
//  3. Environment variables (dots become underscores, e.g. DATABASE_HOST).
//
// Returns an error when the file is missing, the YAML is invalid, or a
// required value fails validation.
func LoadConfig(path string) error {
	v := viper.New()

	v.SetDefault("generation.trades_per_day", 0)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("output.trades_file", "data/output/trades_data.json")
	v.SetDefault("output.counterparties_file", "data/output/counterparty_data.json")
	v.SetDefault("output.sql_file", "data/output/detection_queries.sql")
	v.SetDefault("execution_mode.mode", "local_only")
	v.SetDefault("execution_mode.batch_size", 500)
	v.SetDefault("execution_mode.test_mode", 0)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "xtdb")
	v.SetDefault("database.user", "xtdb")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.sslmode", "disable")

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	// Environment overrides, mainly for database credentials in CI.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	start, err := parseDate(v.GetString("date_range.start_date"), "date_range.start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(v.GetString("date_range.end_date"), "date_range.end_date")
	if err != nil {
		return err
	}

	var securities []SecurityConfig
	if err := v.UnmarshalKey("securities", &securities); err != nil {
		return fmt.Errorf("parse securities: %w", err)
	}

	AppConfig = Config{
		DateRange: DateRangeConfig{StartDate: start, EndDate: end},
		Generation: GenerationConfig{
			TradesPerDay: v.GetInt("generation.trades_per_day"),
			Seed:         v.GetInt64("generation.seed"),
		},
		Securities: securities,
		Scenarios: ScenarioToggles{
			Layering:         v.GetBool("scenario_toggles.layering"),
			WashTrading:      v.GetBool("scenario_toggles.wash_trading"),
			Spoofing:         v.GetBool("scenario_toggles.spoofing"),
			MomentumIgnition: v.GetBool("scenario_toggles.momentum_ignition"),
		},
		Output: OutputConfig{
			TradesFile:         v.GetString("output.trades_file"),
			CounterpartiesFile: v.GetString("output.counterparties_file"),
			SQLFile:            v.GetString("output.sql_file"),
		},
		Execution: ExecutionConfig{
			Mode:      v.GetString("execution_mode.mode"),
			BatchSize: v.GetInt("execution_mode.batch_size"),
			TestMode:  v.GetInt("execution_mode.test_mode"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			DBName:   v.GetString("database.dbname"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			SSLMode:  v.GetString("database.sslmode"),
		},
	}

	AppConfig.Database.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Database.User,
		AppConfig.Database.Password,
		AppConfig.Database.Host,
		AppConfig.Database.Port,
		AppConfig.Database.DBName,
		AppConfig.Database.SSLMode,
	)

	return validateConfig(AppConfig)
}

func parseDate(s, key string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing required key: %s", key)
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d.UTC(), nil
}

// validateConfig rejects configurations the generator core is not expected
// to defend against (the simulator itself tolerates an inverted range by
// producing zero days of activity; we refuse it up front instead).
func validateConfig(cfg Config) error {
	var problems []string

	if !cfg.DateRange.EndDate.After(cfg.DateRange.StartDate) {
		problems = append(problems, "date_range: end_date must be after start_date")
	}
	switch cfg.Execution.Mode {
	case "local_only", "full":
	default:
		problems = append(problems, fmt.Sprintf("execution_mode: unknown mode %q", cfg.Execution.Mode))
	}
	if cfg.Execution.BatchSize <= 0 {
		problems = append(problems, "execution_mode: batch_size must be positive")
	}
	for i, sec := range cfg.Securities {
		if sec.Ticker == "" || sec.BasePrice == "" {
			problems = append(problems, fmt.Sprintf("securities[%d]: ticker and base_price are required", i))
		}
	}
	if cfg.Output.TradesFile == "" || cfg.Output.CounterpartiesFile == "" {
		problems = append(problems, "output: trades_file and counterparties_file are required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
