package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/networth/date"
	"github.com/etnz/networth/forex"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for nw.
type Config struct {
	Portfolio string        `toml:"portfolio"` // path to the portfolio file
	Currency  string        `toml:"currency"`  // reporting currency of new portfolios
	Logging   LoggingConfig `toml:"logging"`
	Rates     RatesConfig   `toml:"rates"`
	Output    OutputConfig  `toml:"output"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Pretty bool   `toml:"pretty"` // human readable console output
}

// RatesConfig holds the exchange rate sources configuration.
type RatesConfig struct {
	Offline        bool        `toml:"offline"` // use only the static table
	FrankfurterURL string      `toml:"frankfurter_url"`
	CoinDeskURL    string      `toml:"coindesk_url"`
	RateLimit      int         `toml:"rate_limit"` // requests per second
	Timeout        string      `toml:"timeout"`
	CacheDir       string      `toml:"cache_dir"` // no cache if empty
	Table          []RateEntry `toml:"table"`
}

// RateEntry is a static rate: one From is worth Rate To, from Date on.
type RateEntry struct {
	Date string  `toml:"date"`
	From string  `toml:"from"`
	To   string  `toml:"to"`
	Rate float64 `toml:"rate"`
}

// OutputConfig holds the terminal rendering configuration.
type OutputConfig struct {
	Style string `toml:"style"` // glamour style: auto, dark, light, notty
	Plain bool   `toml:"plain"` // print raw markdown
}

// GetTimeout parses and returns the timeout duration.
func (c *RatesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return forex.DefaultTimeout
	}
	return d
}

// ClientOptions returns the options shared by the online rate sources.
func (c *RatesConfig) ClientOptions() []forex.ClientOption {
	opts := []forex.ClientOption{
		forex.WithTimeout(c.GetTimeout()),
		forex.WithRateLimit(c.RateLimit),
	}
	if c.CacheDir != "" {
		opts = append(opts, forex.WithDailyCache(c.CacheDir))
	}
	return opts
}

// StaticTable builds the table of static rates.
func (c *RatesConfig) StaticTable() (*forex.Table, error) {
	table := forex.NewTable()
	var errs error
	for i, e := range c.Table {
		on, err := date.Parse(e.Date)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("rates.table[%d]: %w", i, err))
			continue
		}
		if e.Rate <= 0 {
			errs = errors.Join(errs, fmt.Errorf("rates.table[%d]: rate %v must be positive", i, e.Rate))
			continue
		}
		table.Set(on, strings.ToUpper(e.From), strings.ToUpper(e.To), decimal.NewFromFloat(e.Rate))
	}
	return table, errs
}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	return &Config{
		Portfolio: "networth.json",
		Currency:  "EUR",
		Logging: LoggingConfig{
			Level:  "warn",
			Pretty: true,
		},
		Rates: RatesConfig{
			FrankfurterURL: forex.DefaultFrankfurterURL,
			CoinDeskURL:    forex.DefaultCoinDeskURL,
			RateLimit:      forex.DefaultRateLimit,
			Timeout:        "30s",
		},
		Output: OutputConfig{
			Style: "auto",
		},
	}
}

// envFile is the dotenv file read on top of the configuration file.
var envFile = ".env"

// LoadConfig loads the configuration.
//
// Sources are applied in order: defaults, the TOML file at 'path' (if it
// exists), a .env file in the current directory, then NW_* environment
// variables.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// .env is optional, existing variables take precedence.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies NW_* environment variables.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("NW_PORTFOLIO"); v != "" {
		config.Portfolio = v
	}
	if v := os.Getenv("NW_CURRENCY"); v != "" {
		config.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("NW_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("NW_LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.Pretty = b
		}
	}
	if v := os.Getenv("NW_RATES_OFFLINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Rates.Offline = b
		}
	}
	if v := os.Getenv("NW_FRANKFURTER_URL"); v != "" {
		config.Rates.FrankfurterURL = v
	}
	if v := os.Getenv("NW_COINDESK_URL"); v != "" {
		config.Rates.CoinDeskURL = v
	}
	if v := os.Getenv("NW_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Rates.RateLimit = n
		}
	}
	if v := os.Getenv("NW_RATES_TIMEOUT"); v != "" {
		config.Rates.Timeout = v
	}
	if v := os.Getenv("NW_CACHE_DIR"); v != "" {
		config.Rates.CacheDir = v
	}
	if v := os.Getenv("NW_STYLE"); v != "" {
		config.Output.Style = v
	}
}
