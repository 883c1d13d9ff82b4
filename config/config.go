// Package config loads the analyzer configuration from YAML and the
// process environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	defaultInterval    = "1h"
	defaultCandleLimit = 200
	defaultTimeRange   = domain.SessionWeekly
)

// Config describes one pair to analyze.
type Config struct {
	Platform     string
	Pair         domain.Pair
	Interval     string
	CandleLimit  int
	TimeRange    domain.SessionType
	BinCount     int
	PollInterval time.Duration
}

// ConfigTmp is the YAML shape; string fields are parsed into Config.
type ConfigTmp struct {
	Platform       string        `yaml:"platform"`
	Pair           string        `yaml:"pair"`
	Interval       string        `yaml:"interval,omitempty"`
	CandleLimitStr string        `yaml:"candle_limit,omitempty"`
	TimeRange      string        `yaml:"time_range,omitempty"`
	BinCountStr    string        `yaml:"bin_count,omitempty"`
	PollInterval   time.Duration `yaml:"poll_interval,omitempty"`
}

// Env holds process-wide settings read from the environment.
type Env struct {
	BinanceAPIKey      string `envconfig:"BINANCE_API_KEY"`
	BinanceAPISecret   string `envconfig:"BINANCE_API_SECRET"`
	BybitAPIKey        string `envconfig:"BYBIT_API_KEY"`
	BybitAPISecret     string `envconfig:"BYBIT_API_SECRET"`
	HyperliquidBaseURL string `envconfig:"HYPERLIQUID_BASE_URL" default:"https://api.hyperliquid.xyz"`
	HyperliquidKey     string `envconfig:"HYPERLIQUID_PRIVATE_KEY"`
	JournalDir         string `envconfig:"ANALYSIS_JOURNAL_DIR" default:"./wal/analysis"`
}

// LoadEnv reads the Env settings from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, errors.Wrap(err, "process environment config")
	}
	return env, nil
}

// Load reads pair configurations from a YAML file.
func Load(path string) ([]Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var tmp []ConfigTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return nil, errors.Wrap(err, "unmarshal yaml config")
	}

	configs := make([]Config, 0, len(tmp))
	for _, c := range tmp {
		parsed, err := c.parse()
		if err != nil {
			return nil, err
		}
		configs = append(configs, parsed)
	}

	return configs, nil
}

func (c ConfigTmp) parse() (Config, error) {
	pair, err := PairFromString(c.Pair)
	if err != nil {
		return Config{}, errors.Wrapf(err, "incorrect 'pair' param in yaml config: %s", c.Pair)
	}

	cfg := Config{
		Platform:     c.Platform,
		Pair:         pair,
		Interval:     c.Interval,
		CandleLimit:  defaultCandleLimit,
		TimeRange:    defaultTimeRange,
		PollInterval: c.PollInterval,
	}
	if cfg.Platform == "" {
		cfg.Platform = "binance"
	}
	if cfg.Interval == "" {
		cfg.Interval = defaultInterval
	}
	if c.CandleLimitStr != "" {
		limit, err := strconv.Atoi(c.CandleLimitStr)
		if err != nil || limit <= 0 {
			return Config{}, errors.Errorf("incorrect 'candle_limit' param in yaml config: %s", c.CandleLimitStr)
		}
		cfg.CandleLimit = limit
	}
	if c.TimeRange != "" {
		switch domain.SessionType(c.TimeRange) {
		case domain.SessionDaily, domain.SessionWeekly, domain.SessionMonthly:
			cfg.TimeRange = domain.SessionType(c.TimeRange)
		default:
			return Config{}, errors.Errorf("incorrect 'time_range' param in yaml config: %s (want daily, weekly or monthly)", c.TimeRange)
		}
	}
	if c.BinCountStr != "" {
		bins, err := strconv.Atoi(c.BinCountStr)
		if err != nil || bins <= 0 {
			return Config{}, errors.Errorf("incorrect 'bin_count' param in yaml config: %s", c.BinCountStr)
		}
		cfg.BinCount = bins
	}

	return cfg, nil
}

// PairFromString parses "BTC_USDT" notation.
func PairFromString(pairStr string) (domain.Pair, error) {
	parts := strings.Split(pairStr, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.Pair{}, errors.New("invalid pair param, want BASE_QUOTE")
	}
	return domain.Pair{From: parts[0], To: parts[1]}, nil
}
