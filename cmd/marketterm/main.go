package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"marketterm/internal/chart"
	"marketterm/internal/config"
	"marketterm/internal/feed"
	"marketterm/internal/geo"
	"marketterm/internal/sched"
	"marketterm/internal/store"
	"marketterm/internal/stream"
	"marketterm/internal/symbols"
	"marketterm/tui"
	"marketterm/tui/panels"
)

func main() {
	// .env is a convenience for local API keys; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("interrupt, shutting down")
		cancel()
	}()

	st := store.Open(cfg.Storage.Path)
	if theme, ok := st.Get("theme"); ok {
		cfg.UI.Theme = theme
	}

	client := feed.NewClient(feed.Config{
		CalendarURL:   cfg.Feed.CalendarURL,
		MacroURL:      cfg.Feed.MacroURL,
		WorldMapURL:   cfg.Feed.WorldMapURL,
		FinnhubKey:    cfg.Feed.FinnhubKey(),
		NewsAPIKey:    cfg.Feed.NewsAPIKey(),
		TwelveDataKey: cfg.Feed.TwelveDataKey(),
		Timeout:       cfg.Feed.Timeout,
	})

	watchlist := symbols.NewList(cfg.Watchlist)
	dataset := loadDataset(ctx, client)

	relay := tui.NewRelay()

	factory := panels.NewCandleFactory(client, relay.Repaint)
	controller := chart.NewController(chart.Config{}, factory, relay, relay.Repaint)
	defer controller.Close()

	scheduler := sched.New(sched.Config{
		Intervals: map[sched.Job]time.Duration{
			sched.JobTicker: cfg.Refresh.Tickers,
			sched.JobNews:   cfg.Refresh.News,
			sched.JobMovers: cfg.Refresh.Movers,
		},
	}, func(symbol string) {
		controller.SetSymbol(symbol)
	})
	defer scheduler.Close()

	registerJobs(scheduler, client, watchlist, cfg.UI.MacroMetric)

	liveFeed := stream.New(stream.Config{
		URL:    cfg.Feed.StreamURL,
		APIKey: cfg.Feed.FinnhubKey(),
	})
	if liveFeed.Enabled() {
		for _, s := range watchlist.Symbols() {
			liveFeed.Subscribe(s)
		}
		go func() {
			if err := liveFeed.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("stream stopped", "err", err)
			}
		}()
	}

	model := tui.NewModel(tui.Deps{
		ThemeName:     cfg.UI.Theme,
		InitialSymbol: cfg.UI.Symbol,
		Scheduler:     scheduler,
		Controller:    controller,
		Store:         st,
		Watchlist:     watchlist,
		Dataset:       dataset,
		Stream:        liveFeed,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	relay.Attach(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		slog.Error("ui exited", "err", err)
		fmt.Fprintln(os.Stderr, "ui:", err)
		os.Exit(1)
	}
}

// setupLogging routes slog to a rotating file; the terminal itself
// belongs to the TUI.
func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadDataset fetches the remote base map, falling back to the bundled
// world document. Either way exactly one dataset is registered.
func loadDataset(ctx context.Context, client *feed.Client) geo.Dataset {
	registry := geo.NewRegistry()

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if doc, err := client.WorldMap(fetchCtx); err == nil {
		if ds, err := geo.ParseDataset(doc); err == nil {
			registry.Register("world", ds)
		} else {
			slog.Warn("remote map dataset rejected", "err", err)
		}
	}
	registry.Register("world", geo.BundledWorld())

	ds, _ := registry.Get("world")
	return ds
}

// registerJobs binds every refresh job to its fetch.
func registerJobs(s *sched.Scheduler, client *feed.Client, watchlist *symbols.List, macroMetric string) {
	s.Register(sched.JobTicker, false, func(ctx context.Context, _ string) (any, error) {
		return client.Quotes(ctx, watchlist.Symbols())
	})
	s.Register(sched.JobNews, true, func(ctx context.Context, symbol string) (any, error) {
		if symbol == "" {
			return client.MarketNews(ctx)
		}
		return client.SymbolNews(ctx, symbol)
	})
	s.Register(sched.JobInsights, true, func(ctx context.Context, symbol string) (any, error) {
		return client.Insights(ctx, symbol)
	})
	s.Register(sched.JobMovers, false, func(ctx context.Context, _ string) (any, error) {
		return client.Movers(ctx, watchlist.Symbols())
	})
	s.Register(sched.JobCalendar, false, func(ctx context.Context, _ string) (any, error) {
		return client.Calendar(ctx)
	})
	s.Register(sched.JobMacro, false, func(ctx context.Context, _ string) (any, error) {
		return client.Macro(ctx, macroMetric)
	})
}
