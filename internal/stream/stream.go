// Package stream maintains an optional live trade feed over a
// websocket. It is strictly additive to the polling refresh cycle:
// without an API key the dashboard runs poll-only, and any stream
// failure degrades back to polling while the reconnect loop retries.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultURL = "wss://ws.finnhub.io"

// Trade is one live tick for a subscribed symbol.
type Trade struct {
	Symbol string
	Price  float64
	Volume float64
	At     time.Time
}

// Config holds stream settings.
type Config struct {
	URL    string
	APIKey string
	// Buffer is the trade channel capacity; slow consumers drop ticks.
	Buffer int
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Buffer <= 0 {
		c.Buffer = 512
	}
	return c
}

// Feed owns the connection, the subscribed-symbol set, and the trade
// channel. The set survives reconnects: every new connection replays
// the full set before reading.
type Feed struct {
	cfg Config

	mu         sync.RWMutex
	subscribed map[string]struct{}

	outbound chan wireMsg
	trades   chan Trade
}

type wireMsg struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol,omitempty"`
}

type wireEvent struct {
	Type string `json:"type"`
	Data []struct {
		Symbol string  `json:"s"`
		Price  float64 `json:"p"`
		Volume float64 `json:"v"`
		TimeMS int64   `json:"t"`
	} `json:"data"`
}

// New creates a feed. Enabled reports whether it will ever connect.
func New(cfg Config) *Feed {
	cfg = cfg.withDefaults()
	return &Feed{
		cfg:        cfg,
		subscribed: make(map[string]struct{}),
		outbound:   make(chan wireMsg, 256),
		trades:     make(chan Trade, cfg.Buffer),
	}
}

// Enabled reports whether an API key is configured.
func (f *Feed) Enabled() bool { return f.cfg.APIKey != "" }

// Trades is the channel of live ticks.
func (f *Feed) Trades() <-chan Trade { return f.trades }

// Subscribe adds a symbol to the live set and, when connected,
// enqueues the subscribe frame. Non-blocking so a large watchlist
// never stalls startup.
func (f *Feed) Subscribe(symbol string) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return
	}
	f.mu.Lock()
	_, known := f.subscribed[s]
	f.subscribed[s] = struct{}{}
	f.mu.Unlock()
	if known {
		return
	}
	select {
	case f.outbound <- wireMsg{Type: "subscribe", Symbol: s}:
	default:
	}
}

// Unsubscribe removes a symbol; reconnects will not replay it.
func (f *Feed) Unsubscribe(symbol string) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return
	}
	f.mu.Lock()
	delete(f.subscribed, s)
	f.mu.Unlock()
	select {
	case f.outbound <- wireMsg{Type: "unsubscribe", Symbol: s}:
	default:
	}
}

// Run connects and pumps trades until ctx is canceled, reconnecting
// with capped exponential backoff. Returns immediately when no API key
// is configured.
func (f *Feed) Run(ctx context.Context) error {
	if !f.Enabled() {
		return nil
	}
	backoff := time.Second
	for {
		if err := f.runOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("stream disconnected", "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			if backoff < 30*time.Second {
				backoff *= 2
			}
		}
	}
}

func (f *Feed) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.cfg.URL+"?token="+f.cfg.APIKey, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// replay the live set on every (re)connect
	f.mu.RLock()
	for s := range f.subscribed {
		_ = conn.WriteJSON(wireMsg{Type: "subscribe", Symbol: s})
	}
	f.mu.RUnlock()

	ping := time.NewTicker(45 * time.Second)
	defer ping.Stop()

	errCh := make(chan error, 1)
	go func() {
		for {
			var ev wireEvent
			if err := conn.ReadJSON(&ev); err != nil {
				errCh <- err
				return
			}
			if ev.Type != "trade" {
				continue
			}
			for _, d := range ev.Data {
				f.dispatch(Trade{
					Symbol: d.Symbol,
					Price:  d.Price,
					Volume: d.Volume,
					At:     time.UnixMilli(d.TimeMS),
				})
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case msg := <-f.outbound:
			_ = conn.WriteJSON(msg)
		case err := <-errCh:
			return err
		}
	}
}

func (f *Feed) dispatch(t Trade) {
	select {
	case f.trades <- t:
	default:
		// slow consumer, drop the tick
	}
}

// decodeEvent is split out for tests.
func decodeEvent(raw []byte) (wireEvent, error) {
	var ev wireEvent
	err := json.Unmarshal(raw, &ev)
	return ev, err
}
