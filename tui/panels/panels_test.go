package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"marketterm/internal/feed"
	"marketterm/internal/geo"
	"marketterm/tui/styles"
)

func ptr(v float64) *float64 { return &v }

func TestNewsEmptyStateIsOneLine(t *testing.T) {
	p := NewNewsPanel(styles.Dark())
	p.SetSize(60, 12)
	view := p.View()
	if !strings.Contains(view, "No headlines.") {
		t.Fatal("empty feed should render the placeholder line")
	}
	if strings.Count(view, "No headlines.") != 1 {
		t.Error("placeholder must appear exactly once")
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	headline := "“Fünf” companies surge on naïve optimism — again and again and again"
	got := truncate(headline, 20)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation, got %q", got)
	}
	if len([]rune(got)) != 20 {
		t.Errorf("expected 20 runes, got %d (%q)", len([]rune(got)), got)
	}
	for _, r := range got {
		if r == '�' {
			t.Fatalf("truncation split a rune: %q", got)
		}
	}
	if short := truncate("brief", 20); short != "brief" {
		t.Errorf("short headline should pass through, got %q", short)
	}
}

func TestNewsSelectionStaysInBounds(t *testing.T) {
	p := NewNewsPanel(styles.Dark())
	p.SetSize(60, 12)
	p.SetFocus(true)
	p.SetArticles([]feed.Article{
		{Title: "one", Source: "A"},
		{Title: "two", Source: "B"},
	})
	for i := 0; i < 5; i++ {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if got := p.Selected(); got == nil || got.Title != "two" {
		t.Errorf("selection should stop at the last article, got %+v", got)
	}
	p.SetArticles([]feed.Article{{Title: "only", Source: "A"}})
	if got := p.Selected(); got == nil || got.Title != "only" {
		t.Errorf("selection should clamp after shrink, got %+v", got)
	}
}

func TestTickerBarWrapsAroundSeam(t *testing.T) {
	p := NewTickerBarPanel(styles.Dark())
	p.SetSize(20)
	p.SetQuotes([]feed.Quote{{Symbol: "AAPL", Price: ptr(190.1), ChangePct: ptr(1.2)}})

	first := p.View()
	if first == "" {
		t.Fatal("strip should render")
	}
	// advancing past the track length must never shrink the window
	for i := 0; i < 200; i++ {
		p.Advance()
		if w := len([]rune(stripANSI(p.View()))); w != 20 {
			t.Fatalf("window width drifted to %d at step %d", w, i)
		}
	}
}

func TestTickerBarLiveOverride(t *testing.T) {
	p := NewTickerBarPanel(styles.Dark())
	p.SetSize(80)
	p.SetQuotes([]feed.Quote{{Symbol: "AAPL", Price: ptr(190.0), ChangePct: ptr(1.2)}})

	p.ApplyTrade("AAPL", 191.5)
	if !strings.Contains(p.track, "191.50") {
		t.Error("streamed price should override the snapshot")
	}
	p.SetQuotes([]feed.Quote{{Symbol: "AAPL", Price: ptr(190.0), ChangePct: ptr(1.2)}})
	if strings.Contains(p.track, "191.50") {
		t.Error("fresh snapshot should drop the stream override")
	}
}

func TestTickerBarSymbolAtFollowsOffset(t *testing.T) {
	p := NewTickerBarPanel(styles.Dark())
	p.SetSize(40)
	p.SetQuotes([]feed.Quote{
		{Symbol: "AAPL", Price: ptr(190.0), ChangePct: ptr(1.0)},
		{Symbol: "MSFT", Price: ptr(420.0), ChangePct: ptr(0.5)},
	})

	sym, ok := p.SymbolAt(0)
	if !ok || sym != "AAPL" {
		t.Fatalf("column 0 should hit AAPL, got %q", sym)
	}
	// scroll one full AAPL entry plus its gap past the left edge
	for i := 0; i < p.segments[0].end+3; i++ {
		p.Advance()
	}
	sym, ok = p.SymbolAt(0)
	if !ok || sym != "MSFT" {
		t.Errorf("after scrolling, column 0 should hit MSFT, got %q", sym)
	}
	if _, ok := p.SymbolAt(-1); ok {
		t.Error("out-of-strip click must not match")
	}
}

func TestMoversEnterActivatesSymbol(t *testing.T) {
	p := NewMoversPanel(styles.Dark())
	p.SetSize(60, 14)
	p.SetFocus(true)
	p.SetMovers(feed.Movers{
		Gainers: []feed.Quote{{Symbol: "NVDA", ChangePct: ptr(4.2)}},
		Losers:  []feed.Quote{{Symbol: "TSLA", ChangePct: ptr(-3.1)}},
	})

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a row should emit a command")
	}
	msg, ok := cmd().(SymbolActivatedMsg)
	if !ok || msg.Symbol != "TSLA" {
		t.Errorf("expected TSLA activation, got %+v", msg)
	}
}

func TestToCandlesOpensAtPriorClose(t *testing.T) {
	candles := toCandles([]feed.ClosePoint{
		{Date: "2026-01-02", Close: 100},
		{Date: "2026-01-03", Close: 104},
		{Date: "2026-01-04", Close: 101},
	})
	if len(candles) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(candles))
	}
	if candles[1].open != 100 || candles[1].close != 104 {
		t.Errorf("second candle should open at prior close: %+v", candles[1])
	}
	if candles[2].high != 104 || candles[2].low != 101 {
		t.Errorf("down candle range wrong: %+v", candles[2])
	}
}

func TestMacroMapRendersDegenerateScale(t *testing.T) {
	p := NewMacroMapPanel(styles.Dark(), geo.BundledWorld())
	p.SetSize(80, 12)
	p.SetSeries(feed.MacroSeries{
		Metric: "cpi_yoy",
		Data: []feed.MacroPoint{
			{Code: "US", Value: ptr(3.0)},
			{Code: "DE", Value: ptr(3.0)}, // all equal: degenerate range
			{Code: "JP", Value: nil},
		},
	})
	view := p.View()
	if !strings.Contains(view, "cpi_yoy") {
		t.Error("metric name should appear in the title")
	}
	if !strings.Contains(view, "United States") {
		t.Error("selected country should render its display name")
	}
}

func TestInsightsGridKeepsOrder(t *testing.T) {
	p := NewInsightsPanel(styles.Dark())
	p.SetSize(80, 10)
	p.SetInsights(&feed.Insights{
		Symbol: "AAPL",
		Periods: map[string]*float64{
			"1W": ptr(1.0), "1Y": ptr(12.0), // sparse on purpose
		},
		Profile: "Designs and sells devices.",
	})
	view := stripANSI(p.View())
	iw := strings.Index(view, "1W")
	iy := strings.Index(view, "1Y")
	if iw < 0 || iy < 0 || iw > iy {
		t.Errorf("period grid out of order: 1W@%d 1Y@%d", iw, iy)
	}
	if !strings.Contains(view, "--") {
		t.Error("missing periods should render as dashes")
	}
}

// stripANSI removes escape sequences so tests can assert on text.
func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case inSeq:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inSeq = false
			}
		case r == '\x1b':
			inSeq = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
