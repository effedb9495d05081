package panels

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/chart"
	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// HistorySource supplies the daily closes the candle widget draws.
type HistorySource interface {
	History(ctx context.Context, symbol string, days int) ([]feed.ClosePoint, error)
}

const (
	chartHistoryDays = 130
	chartFetchLimit  = 5 * time.Second
)

// candle is one daily bar derived from consecutive closes: the open is
// the previous day's close.
type candle struct {
	open, high, low, close float64
}

// CandleWidget is a live chart handle over a history source.
type CandleWidget struct {
	source HistorySource
	theme  *styles.Theme
	onData func()

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	symbol  string
	candles []candle
	loading bool
}

// Retarget switches the displayed symbol and reloads in the
// background, keeping the previous series on screen until data lands.
func (w *CandleWidget) Retarget(symbol string) {
	w.mu.Lock()
	w.symbol = symbol
	w.loading = true
	w.mu.Unlock()
	go w.load(symbol)
}

func (w *CandleWidget) load(symbol string) {
	ctx, cancel := context.WithTimeout(w.ctx, chartFetchLimit)
	defer cancel()
	closes, err := w.source.History(ctx, symbol, chartHistoryDays)

	w.mu.Lock()
	// a newer Retarget may have raced this load
	if w.symbol == symbol {
		w.loading = false
		if err == nil {
			w.candles = toCandles(closes)
		}
	}
	w.mu.Unlock()
	w.onData()
}

func toCandles(closes []feed.ClosePoint) []candle {
	var out []candle
	for i, cp := range closes {
		c := candle{open: cp.Close, high: cp.Close, low: cp.Close, close: cp.Close}
		if i > 0 {
			c.open = closes[i-1].Close
		}
		if c.open > c.close {
			c.high, c.low = c.open, c.close
		} else {
			c.high, c.low = c.close, c.open
		}
		out = append(out, c)
	}
	return out
}

// View renders the candle grid with a left price axis.
func (w *CandleWidget) View(width, height int) string {
	w.mu.Lock()
	candles := w.candles
	loading := w.loading
	symbol := w.symbol
	w.mu.Unlock()

	if len(candles) == 0 {
		if loading {
			return w.theme.Muted.Render("Loading " + symbol + "...")
		}
		return w.theme.Muted.Render("No price history.")
	}

	chartWidth := width - 10
	if chartWidth < 10 {
		chartWidth = 10
	}
	perCandle := 2 // bar plus gap
	show := chartWidth / perCandle
	if show < 1 {
		show = 1
	}
	if show > len(candles) {
		show = len(candles)
	}
	display := candles[len(candles)-show:]

	minP, maxP := display[0].low, display[0].high
	for _, c := range display {
		if c.low < minP {
			minP = c.low
		}
		if c.high > maxP {
			maxP = c.high
		}
	}
	if maxP == minP {
		maxP = minP + 1
	}
	pad := (maxP - minP) * 0.05
	minP -= pad
	maxP += pad

	rows := height - 1
	if rows < 4 {
		rows = 4
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		price := maxP - (maxP-minP)*float64(row)/float64(rows-1)
		b.WriteString(w.theme.ChartAxis.Render(fmt.Sprintf("%8.2f │", price)))
		for _, c := range display {
			ch := candleChar(c, price, (maxP-minP)/float64(rows*2))
			style := w.theme.CandleUp
			if c.close < c.open {
				style = w.theme.CandleDown
			}
			b.WriteString(style.Render(string(ch)))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString(w.theme.ChartAxis.Render("─────────┴" + strings.Repeat("─", show*perCandle)))
	return b.String()
}

func candleChar(c candle, rowPrice, tolerance float64) rune {
	bodyTop, bodyBottom := c.open, c.close
	if c.close > c.open {
		bodyTop, bodyBottom = c.close, c.open
	}
	if rowPrice <= bodyTop+tolerance && rowPrice >= bodyBottom-tolerance {
		return '┃'
	}
	if rowPrice <= c.high+tolerance && rowPrice >= c.low-tolerance {
		return '│'
	}
	return ' '
}

// Close releases the widget's background work.
func (w *CandleWidget) Close() { w.cancel() }

// CandleFactory builds candle widgets. The charting capability is
// considered available only after one successful probe against the
// history source, mirroring an external component that may not be
// ready when the first symbol is requested.
type CandleFactory struct {
	source HistorySource
	onData func()

	mu        sync.Mutex
	available bool
	probing   bool
}

// NewCandleFactory creates the factory. onData is invoked whenever a
// widget finishes a background load (may be nil).
func NewCandleFactory(source HistorySource, onData func()) *CandleFactory {
	if onData == nil {
		onData = func() {}
	}
	return &CandleFactory{source: source, onData: onData}
}

// Available reports probe success, kicking off one async probe on
// first call.
func (f *CandleFactory) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.available {
		return true
	}
	if !f.probing {
		f.probing = true
		go f.probe()
	}
	return false
}

func (f *CandleFactory) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), chartFetchLimit)
	defer cancel()
	_, err := f.source.History(ctx, "SPY", 5)

	f.mu.Lock()
	f.probing = false
	f.available = err == nil
	f.mu.Unlock()
}

// New constructs a widget for opts, verifying the symbol has history
// before handing it back.
func (f *CandleFactory) New(opts chart.Options) (chart.Widget, error) {
	ctx, cancel := context.WithCancel(context.Background())
	fetchCtx, fetchCancel := context.WithTimeout(ctx, chartFetchLimit)
	defer fetchCancel()

	closes, err := f.source.History(fetchCtx, opts.Symbol, chartHistoryDays)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("chart %s: %w", opts.Symbol, err)
	}

	w := &CandleWidget{
		source:  f.source,
		theme:   styles.ByName(string(opts.Theme)),
		onData:  f.onData,
		ctx:     ctx,
		cancel:  cancel,
		symbol:  opts.Symbol,
		candles: toCandles(closes),
	}
	return w, nil
}

// ChartPanel hosts the chart controller's rendering surface.
type ChartPanel struct {
	theme      *styles.Theme
	controller *chart.Controller
	label      string

	focused bool
	width   int
	height  int
}

// NewChartPanel creates the panel around a controller.
func NewChartPanel(theme *styles.Theme, controller *chart.Controller) *ChartPanel {
	return &ChartPanel{theme: theme, controller: controller}
}

// SetTheme swaps the palette and re-renders the widget for it.
func (p *ChartPanel) SetTheme(theme *styles.Theme) {
	p.theme = theme
	p.controller.SetTheme(chart.Theme(theme.Name))
}

// SetLabel sets the symbol shown in the panel title.
func (p *ChartPanel) SetLabel(symbol string) { p.label = symbol }

// View renders the controller surface inside the panel chrome.
func (p *ChartPanel) View() string {
	inner := p.controller.View(p.width-4, p.height-4)
	if inner == "" {
		inner = p.theme.Muted.Render("Press / to pick a symbol.")
	}
	body := lipgloss.NewStyle().Width(p.width - 4).Render(inner)
	return renderPanel(p.theme, p.title(), body, p.focused, p.width, p.height)
}

func (p *ChartPanel) title() string {
	if p.label == "" {
		return "Chart"
	}
	return "Chart - " + p.label
}

// SetFocus sets the focus state.
func (p *ChartPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
