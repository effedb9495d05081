package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MARKETTERM_CONFIG", "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Watchlist) == 0 {
		t.Fatal("expected default watchlist")
	}
	if cfg.Refresh.Tickers != 25*time.Second {
		t.Errorf("expected 25s ticker refresh, got %v", cfg.Refresh.Tickers)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected dark theme default, got %q", cfg.UI.Theme)
	}
	if cfg.UI.Symbol != "AAPL" {
		t.Errorf("expected AAPL initial symbol, got %q", cfg.UI.Symbol)
	}
}

func TestMultiWordKeysDecode(t *testing.T) {
	t.Setenv("MARKETTERM_CONFIG", "/nonexistent/config.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Feed.FinnhubKeyEnv != "FINNHUB_API_KEY" {
		t.Errorf("expected FINNHUB_API_KEY, got %q", cfg.Feed.FinnhubKeyEnv)
	}
	if cfg.Feed.NewsAPIKeyEnv != "NEWS_API_KEY" {
		t.Errorf("expected NEWS_API_KEY, got %q", cfg.Feed.NewsAPIKeyEnv)
	}
	if cfg.Feed.TwelveDataKeyEnv != "TWELVEDATA_API_KEY" {
		t.Errorf("expected TWELVEDATA_API_KEY, got %q", cfg.Feed.TwelveDataKeyEnv)
	}
	if cfg.Feed.StreamURL != "wss://ws.finnhub.io" {
		t.Errorf("expected finnhub stream url, got %q", cfg.Feed.StreamURL)
	}
	if cfg.UI.MacroMetric != "cpi_yoy" {
		t.Errorf("expected cpi_yoy, got %q", cfg.UI.MacroMetric)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected rotation defaults 10/3, got %d/%d",
			cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}
}

func TestMultiWordEnvOverride(t *testing.T) {
	t.Setenv("MARKETTERM_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("MARKETTERM_UI_MACRO_METRIC", "gdp_yoy")
	t.Setenv("MARKETTERM_FEED_CALENDAR_URL", "https://example.com/cal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.MacroMetric != "gdp_yoy" {
		t.Errorf("expected gdp_yoy from env, got %q", cfg.UI.MacroMetric)
	}
	if cfg.Feed.CalendarURL != "https://example.com/cal" {
		t.Errorf("expected calendar url from env, got %q", cfg.Feed.CalendarURL)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MARKETTERM_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("MARKETTERM_UI_THEME", "light")
	t.Setenv("MARKETTERM_UI_SYMBOL", "MSFT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("expected light theme from env, got %q", cfg.UI.Theme)
	}
	if cfg.UI.Symbol != "MSFT" {
		t.Errorf("expected MSFT from env, got %q", cfg.UI.Symbol)
	}
}

func TestWithDefaultsClampsTheme(t *testing.T) {
	c := withDefaults(Config{UI: UIConfig{Theme: "solarized"}})
	if c.UI.Theme != "dark" {
		t.Errorf("unknown theme should fall back to dark, got %q", c.UI.Theme)
	}
}

func TestAPIKeysFromEnv(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "  abc123  ")
	fc := FeedConfig{FinnhubKeyEnv: "FINNHUB_API_KEY"}
	if got := fc.FinnhubKey(); got != "abc123" {
		t.Errorf("expected trimmed key, got %q", got)
	}
}
