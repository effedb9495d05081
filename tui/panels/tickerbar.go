package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// TickerBarPanel is the scrolling quote strip across the top of the
// dashboard. The rendered track is laid out twice back to back so the
// visible window can wrap around the seam without a visual jump.
type TickerBarPanel struct {
	theme  *styles.Theme
	quotes []feed.Quote
	live   map[string]float64 // streamed prices overriding the poll snapshot

	track    string // unstyled track, one copy
	segments []segment
	offset   int
	width    int
}

// segment maps a byte range of the track back to its symbol, for
// click-to-select.
type segment struct {
	symbol     string
	start, end int
}

// NewTickerBarPanel creates the strip.
func NewTickerBarPanel(theme *styles.Theme) *TickerBarPanel {
	return &TickerBarPanel{theme: theme, live: make(map[string]float64)}
}

// SetTheme swaps the palette.
func (p *TickerBarPanel) SetTheme(theme *styles.Theme) { p.theme = theme }

// SetSize sets the visible width.
func (p *TickerBarPanel) SetSize(width int) { p.width = width }

// SetQuotes replaces the strip content with a fresh poll snapshot.
// Streamed overrides for symbols present in the snapshot are dropped,
// since the snapshot is newer.
func (p *TickerBarPanel) SetQuotes(quotes []feed.Quote) {
	p.quotes = quotes
	for _, q := range quotes {
		delete(p.live, q.Symbol)
	}
	p.rebuild()
}

// ApplyTrade overlays a streamed price until the next poll snapshot.
func (p *TickerBarPanel) ApplyTrade(symbol string, price float64) {
	p.live[symbol] = price
	p.rebuild()
}

// Advance scrolls the strip by one cell.
func (p *TickerBarPanel) Advance() {
	if len(p.track) == 0 {
		return
	}
	p.offset = (p.offset + 1) % len(p.track)
}

func (p *TickerBarPanel) rebuild() {
	var b strings.Builder
	p.segments = p.segments[:0]
	for _, q := range p.quotes {
		price := q.Price
		if v, ok := p.live[q.Symbol]; ok {
			price = &v
		}
		start := b.Len()
		b.WriteString(formatQuote(q.Symbol, price, q.ChangePct))
		p.segments = append(p.segments, segment{symbol: q.Symbol, start: start, end: b.Len()})
		b.WriteString("   ")
	}
	p.track = b.String()
	if p.track != "" && p.offset >= len(p.track) {
		p.offset = p.offset % len(p.track)
	}
}

func formatQuote(symbol string, price, changePct *float64) string {
	ps := "--"
	if price != nil {
		ps = fmt.Sprintf("%.2f", *price)
	}
	cs := "--"
	if changePct != nil {
		cs = fmt.Sprintf("%+.2f%%", *changePct)
	}
	return fmt.Sprintf("%s %s %s", symbol, ps, cs)
}

// View renders the visible window of the doubled track.
func (p *TickerBarPanel) View() string {
	if p.width <= 0 {
		return ""
	}
	if p.track == "" {
		return p.theme.Muted.Render(padRight("loading quotes...", p.width))
	}
	doubled := p.track + p.track
	start := p.offset
	window := doubled[start:]
	if len(window) > p.width {
		window = window[:p.width]
	}
	return p.theme.Row.Background(p.theme.SurfaceColor).Render(padRight(window, p.width))
}

// SymbolAt maps a clicked strip column back to the quote under it.
func (p *TickerBarPanel) SymbolAt(x int) (string, bool) {
	if p.track == "" || x < 0 || x >= p.width {
		return "", false
	}
	pos := (p.offset + x) % len(p.track)
	for _, s := range p.segments {
		if pos >= s.start && pos < s.end {
			return s.symbol, true
		}
	}
	return "", false
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
