package visuate

import (
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config carries every policy knob of a reconciliation run. It is built once
// at process start and passed by reference into each component; no component
// reads ambient global state.
type Config struct {
	// WorkbookPath is the durable store holding the Shares and Currency
	// tables. The VISUATE_WORKBOOK environment variable overrides it.
	WorkbookPath string `yaml:"workbook" default:"hist_base.xlsx" validate:"required"`

	// OutputDir receives the per-instrument projection workbooks and the
	// report files.
	OutputDir string `yaml:"output_dir" default:"."`

	// LookbackDays is the width W of the sliding gap-detection window,
	// measured back from a series' most recent date.
	LookbackDays int `yaml:"lookback_days" default:"10" validate:"min=1"`

	// UpdateThresholdDays is the staleness below which no new provider
	// fetch is attempted (the data is considered current).
	UpdateThresholdDays int `yaml:"update_threshold_days" default:"1" validate:"min=0"`

	// RecentWindowDays bounds the trailing window of formatted values in
	// the quality report.
	RecentWindowDays int `yaml:"recent_window_days" default:"5" validate:"min=1"`

	// HTTPTimeoutSeconds is the fixed per-call network timeout at the
	// provider-adapter boundary.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds" default:"10" validate:"min=1"`

	// Instruments is the fallback instrument set, used when the workbook
	// carries no metadata rows (first run).
	Instruments []InstrumentConfig `yaml:"instruments" validate:"dive"`

	// Currencies is the fallback set of tracked EUR-base currency codes,
	// used when the workbook carries no Currency table yet.
	Currencies []string `yaml:"currencies" default:"[\"USD\", \"GBP\", \"CAD\", \"CNY\", \"JPY\"]"`

	// EuroSuffixes lists ticker suffixes of venues quoting in EUR; any
	// other ticker is assumed USD-denominated unless the instrument
	// configuration says otherwise.
	EuroSuffixes []string `yaml:"euro_suffixes" default:"[\".DE\", \".L\", \".PA\"]"`

	Quality QualityConfig `yaml:"quality"`
}

// InstrumentConfig declares one tracked instrument.
type InstrumentConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Ticker   string `yaml:"ticker" validate:"required"`
	Currency string `yaml:"currency" validate:"omitempty,len=3"`
}

// QualityConfig holds the data-quality thresholds. They are policy data, not
// engine logic: the analyzer never hard-wires a number per instrument name.
type QualityConfig struct {
	// DefaultStalenessDays flags an instrument WARNING when its last
	// observation is older than this many days.
	DefaultStalenessDays int `yaml:"default_staleness_days" default:"5" validate:"min=1"`

	// StalenessDays overrides the default per instrument name.
	StalenessDays map[string]int `yaml:"staleness_days"`

	// RateStalenessDays is the same threshold for the rate table.
	RateStalenessDays int `yaml:"rate_staleness_days" default:"1" validate:"min=1"`

	// CriticalGapCount escalates overall health to CRITICAL when more than
	// this many warnings are raised.
	CriticalGapCount int `yaml:"critical_gap_count" default:"2" validate:"min=0"`
}

// DefaultConfig returns a Config with every default applied and no
// instruments declared.
func DefaultConfig() (*Config, error) {
	cfg := new(Config)
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the YAML configuration at path, applies defaults,
// environment overrides and validation. A missing file is not an error: the
// defaults alone form a valid configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := new(Config)

	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// keep zero config, defaults fill it below
	case err != nil:
		return nil, fmt.Errorf("read config %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if v := os.Getenv("VISUATE_WORKBOOK"); v != "" {
		cfg.WorkbookPath = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config %q: %w", path, err)
	}
	return cfg, nil
}

// StalenessThreshold returns the staleness threshold in days for the named
// instrument.
func (q QualityConfig) StalenessThreshold(instrument string) int {
	if d, ok := q.StalenessDays[instrument]; ok {
		return d
	}
	return q.DefaultStalenessDays
}

// CurrencyFor derives the currency of denomination for a ticker: EUR for
// the configured venue suffixes, USD otherwise.
func (c *Config) CurrencyFor(ticker string) string {
	for _, suffix := range c.EuroSuffixes {
		if strings.HasSuffix(ticker, suffix) {
			return "EUR"
		}
	}
	return "USD"
}
