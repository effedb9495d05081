package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Watchlist []string      `mapstructure:"watchlist"`
	Feed      FeedConfig    `mapstructure:"feed"`
	Refresh   RefreshConfig `mapstructure:"refresh"`
	Storage   StorageConfig `mapstructure:"storage"`
	Logging   LoggingConfig `mapstructure:"logging"`
	UI        UIConfig      `mapstructure:"ui"`
}

// FeedConfig holds data-provider settings. API keys are read from the
// environment so they never end up in a config file.
type FeedConfig struct {
	FinnhubKeyEnv    string        `mapstructure:"finnhub_key_env"`
	NewsAPIKeyEnv    string        `mapstructure:"news_api_key_env"`
	TwelveDataKeyEnv string        `mapstructure:"twelve_data_key_env"`
	CalendarURL      string        `mapstructure:"calendar_url"`
	MacroURL         string        `mapstructure:"macro_url"`
	WorldMapURL      string        `mapstructure:"world_map_url"`
	StreamURL        string        `mapstructure:"stream_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// RefreshConfig holds the per-panel refresh intervals.
type RefreshConfig struct {
	Tickers time.Duration `mapstructure:"tickers"`
	News    time.Duration `mapstructure:"news"`
	Movers  time.Duration `mapstructure:"movers"`
}

// StorageConfig holds sqlite settings for the layout store.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig configures the rotating diagnostic log.
type LoggingConfig struct {
	Path       string `mapstructure:"path"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme       string `mapstructure:"theme"`        // "dark" or "light"
	Symbol      string `mapstructure:"symbol"`       // initial symbol
	MacroMetric string `mapstructure:"macro_metric"`
}

// DefaultWatchlist is the built-in universe shown on the ticker strip
// when no watchlist is configured.
var DefaultWatchlist = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "META", "GOOGL", "TSLA", "AVGO", "AMD", "NFLX",
	"ADBE", "INTC", "CSCO", "QCOM", "TXN",
	"CRM", "ORCL", "IBM", "NOW", "SNOW", "ABNB", "SHOP", "PYPL",
	"JPM", "BAC", "WFC", "GS", "MS", "V", "MA", "AXP", "BRK-B", "SCHW",
	"KO", "PEP", "PG", "MCD", "COST", "HD", "LOW", "DIS", "NKE", "SBUX", "TGT", "WMT",
	"T", "VZ", "CMCSA",
	"XOM", "CVX", "COP", "CAT", "BA", "GE", "UPS", "FDX", "DE",
	"UNH", "LLY", "MRK", "ABBV", "JNJ", "PFE",
	"UBER", "BKNG",
	"SPY", "QQQ", "DIA", "IWM",
}

// Load reads configuration from file and env. Env var overrides use
// prefix MARKETTERM_ (e.g. MARKETTERM_UI_THEME=light).
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "marketterm")

	v.SetDefault("watchlist", DefaultWatchlist)
	v.SetDefault("feed.finnhub_key_env", "FINNHUB_API_KEY")
	v.SetDefault("feed.news_api_key_env", "NEWS_API_KEY")
	v.SetDefault("feed.twelve_data_key_env", "TWELVEDATA_API_KEY")
	v.SetDefault("feed.calendar_url", "")
	v.SetDefault("feed.macro_url", "")
	v.SetDefault("feed.world_map_url", "")
	v.SetDefault("feed.stream_url", "wss://ws.finnhub.io")
	v.SetDefault("feed.timeout", "10s")
	v.SetDefault("refresh.tickers", "25s")
	v.SetDefault("refresh.news", "90s")
	v.SetDefault("refresh.movers", "180s")
	v.SetDefault("storage.path", filepath.Join(dataDir, "marketterm.db"))
	v.SetDefault("logging.path", filepath.Join(dataDir, "marketterm.log"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.symbol", "AAPL")
	v.SetDefault("ui.macro_metric", "cpi_yoy")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("MARKETTERM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "marketterm"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MARKETTERM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c = withDefaults(c)
	return c, nil
}

func withDefaults(c Config) Config {
	if len(c.Watchlist) == 0 {
		c.Watchlist = DefaultWatchlist
	}
	if c.Feed.Timeout <= 0 {
		c.Feed.Timeout = 10 * time.Second
	}
	if c.Refresh.Tickers <= 0 {
		c.Refresh.Tickers = 25 * time.Second
	}
	if c.Refresh.News <= 0 {
		c.Refresh.News = 90 * time.Second
	}
	if c.Refresh.Movers <= 0 {
		c.Refresh.Movers = 180 * time.Second
	}
	if c.UI.Theme != "light" {
		c.UI.Theme = "dark"
	}
	if c.UI.Symbol == "" {
		c.UI.Symbol = "AAPL"
	}
	return c
}

// FinnhubKey returns the Finnhub API key from the environment, or "".
func (c FeedConfig) FinnhubKey() string { return strings.TrimSpace(os.Getenv(c.FinnhubKeyEnv)) }

// NewsAPIKey returns the NewsAPI key from the environment, or "".
func (c FeedConfig) NewsAPIKey() string { return strings.TrimSpace(os.Getenv(c.NewsAPIKeyEnv)) }

// TwelveDataKey returns the TwelveData key from the environment, or "".
func (c FeedConfig) TwelveDataKey() string { return strings.TrimSpace(os.Getenv(c.TwelveDataKeyEnv)) }
