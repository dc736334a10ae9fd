package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pi5dash/evescan/internal/atomicio"
)

// Providers holds externally sourced endpoints and credentials. Resolved
// once at process start; components never read the environment directly.
type Providers struct {
	MarketBaseURL string

	AlpacaKey    string
	AlpacaSecret string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIStyle   string // "responses" | "chat" | "" (try both)
}

// Config is the run configuration passed into every component.
type Config struct {
	DataDir string

	MaxStockPrice    float64
	MaxOptionPremium float64
	MinScore         float64
	MaxTickers       int
	Budget           float64

	UseAISentiment   bool
	AIRateLimitDelay time.Duration
	AITopN           int
	ForceAIAll       bool

	JournalMaxEntries int

	Providers Providers
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:           filepath.Join(home, ".evescan"),
		MaxStockPrice:     50,
		MaxOptionPremium:  2.00,
		MinScore:          2.0,
		MaxTickers:        100,
		Budget:            50,
		UseAISentiment:    true,
		AIRateLimitDelay:  1 * time.Second,
		AITopN:            5,
		ForceAIAll:        false,
		JournalMaxEntries: 30,
	}
}

// fileConfig is the flat key-value document persisted at ConfigPath.
// Pointer fields distinguish "absent" from zero so the overlay only
// touches keys the user actually set.
type fileConfig struct {
	MaxStockPrice    *float64 `json:"max_stock_price,omitempty"`
	MaxOptionPremium *float64 `json:"max_option_premium,omitempty"`
	MinScore         *float64 `json:"min_score,omitempty"`
	MaxTickers       *int     `json:"max_tickers,omitempty"`
	Budget           *float64 `json:"budget,omitempty"`
	UseAISentiment   *bool    `json:"use_ai_sentiment,omitempty"`
	AIRateLimitSecs  *float64 `json:"ai_rate_limit_delay,omitempty"`
	AITopN           *int     `json:"ai_top_n,omitempty"`
	ForceAIAll       *bool    `json:"force_ai_all,omitempty"`
	JournalMax       *int     `json:"journal_max_entries,omitempty"`
}

// Load builds the effective configuration: defaults, overlaid with the
// config document in dataDir (if present), then environment-derived
// provider credentials. An unreadable config file is an error; a missing
// one is not.
func Load(dataDir string) (Config, error) {
	cfg := Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	} else if env := os.Getenv("EVESCAN_DATA_DIR"); env != "" {
		cfg.DataDir = env
	}

	var fc fileConfig
	err := atomicio.ReadJSON(cfg.ConfigPath(), &fc)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		cfg.applyOverlay(fc)
	}

	cfg.Providers = providersFromEnv()

	if v := os.Getenv("EVESCAN_JOURNAL_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.JournalMaxEntries = n
		}
	}

	return cfg, nil
}

func (c *Config) applyOverlay(fc fileConfig) {
	if fc.MaxStockPrice != nil {
		c.MaxStockPrice = *fc.MaxStockPrice
	}
	if fc.MaxOptionPremium != nil {
		c.MaxOptionPremium = *fc.MaxOptionPremium
	}
	if fc.MinScore != nil {
		c.MinScore = *fc.MinScore
	}
	if fc.MaxTickers != nil {
		c.MaxTickers = *fc.MaxTickers
	}
	if fc.Budget != nil {
		c.Budget = *fc.Budget
	}
	if fc.UseAISentiment != nil {
		c.UseAISentiment = *fc.UseAISentiment
	}
	if fc.AIRateLimitSecs != nil {
		c.AIRateLimitDelay = time.Duration(*fc.AIRateLimitSecs * float64(time.Second))
	}
	if fc.AITopN != nil {
		c.AITopN = *fc.AITopN
	}
	if fc.ForceAIAll != nil {
		c.ForceAIAll = *fc.ForceAIAll
	}
	if fc.JournalMax != nil {
		c.JournalMaxEntries = *fc.JournalMax
	}
}

// Save persists the tunable keys back to the flat config document.
func (c Config) Save() error {
	secs := c.AIRateLimitDelay.Seconds()
	fc := fileConfig{
		MaxStockPrice:    &c.MaxStockPrice,
		MaxOptionPremium: &c.MaxOptionPremium,
		MinScore:         &c.MinScore,
		MaxTickers:       &c.MaxTickers,
		Budget:           &c.Budget,
		UseAISentiment:   &c.UseAISentiment,
		AIRateLimitSecs:  &secs,
		AITopN:           &c.AITopN,
		ForceAIAll:       &c.ForceAIAll,
		JournalMax:       &c.JournalMaxEntries,
	}
	return atomicio.WriteJSONAtomic(c.ConfigPath(), fc)
}

func providersFromEnv() Providers {
	p := Providers{
		MarketBaseURL: os.Getenv("MARKET_DATA_BASE_URL"),
		AlpacaKey:     firstEnv("ALPACA_API_KEY", "ALPACA_API_KEY_ID", "APCA_API_KEY_ID"),
		AlpacaSecret:  firstEnv("ALPACA_SECRET_KEY", "ALPACA_API_SECRET_KEY", "APCA_API_SECRET_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		OpenAIStyle:   os.Getenv("OPENAI_API_STYLE"),
	}
	if p.OpenAIBaseURL == "" {
		p.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if p.OpenAIModel == "" {
		p.OpenAIModel = "gpt-4o-mini"
	}
	return p
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Paths of the persisted state documents.

func (c Config) ConfigPath() string   { return filepath.Join(c.DataDir, "config.json") }
func (c Config) ReportPath() string   { return filepath.Join(c.DataDir, "research.json") }
func (c Config) JournalPath() string  { return filepath.Join(c.DataDir, "research_journal.json") }
func (c Config) UniversePath() string { return filepath.Join(c.DataDir, "ticker_universe.json") }
