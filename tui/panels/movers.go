package panels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// MoversPanel shows the day's top gainers and losers side by side.
// Rows are activatable: enter selects the highlighted symbol for the
// whole dashboard.
type MoversPanel struct {
	theme  *styles.Theme
	movers feed.Movers

	selectedIndex int // index into the flattened gainers+losers list
	focused       bool
	width         int
	height        int
}

// NewMoversPanel creates the panel.
func NewMoversPanel(theme *styles.Theme) *MoversPanel {
	return &MoversPanel{theme: theme}
}

// SetTheme swaps the palette.
func (p *MoversPanel) SetTheme(theme *styles.Theme) { p.theme = theme }

// SetMovers replaces the panel content.
func (p *MoversPanel) SetMovers(m feed.Movers) {
	p.movers = m
	if n := p.rowCount(); p.selectedIndex >= n {
		p.selectedIndex = 0
	}
}

func (p *MoversPanel) rowCount() int {
	return len(p.movers.Gainers) + len(p.movers.Losers)
}

func (p *MoversPanel) rowAt(i int) *feed.Quote {
	if i < 0 {
		return nil
	}
	if i < len(p.movers.Gainers) {
		return &p.movers.Gainers[i]
	}
	i -= len(p.movers.Gainers)
	if i < len(p.movers.Losers) {
		return &p.movers.Losers[i]
	}
	return nil
}

// Update handles navigation and row activation while focused.
func (p *MoversPanel) Update(msg tea.Msg) (*MoversPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused {
		return p, nil
	}
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex < p.rowCount()-1 {
			p.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter", " "))):
		if q := p.rowAt(p.selectedIndex); q != nil {
			symbol := q.Symbol
			return p, func() tea.Msg { return SymbolActivatedMsg{Symbol: symbol} }
		}
	}
	return p, nil
}

// View renders the two columns.
func (p *MoversPanel) View() string {
	colWidth := (p.width - 6) / 2
	gainers := p.renderColumn("Gainers", p.movers.Gainers, 0, colWidth)
	losers := p.renderColumn("Losers", p.movers.Losers, len(p.movers.Gainers), colWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Top, gainers, "  ", losers)
	if p.rowCount() == 0 {
		content = p.theme.Muted.Render("Loading movers...")
	}
	return renderPanel(p.theme, "Movers", content, p.focused, p.width, p.height)
}

func (p *MoversPanel) renderColumn(header string, quotes []feed.Quote, base, width int) string {
	rows := []string{p.theme.Header.Render(header)}
	maxRows := p.height - 5
	if maxRows < 1 {
		maxRows = 1
	}
	for i, q := range quotes {
		if i >= maxRows {
			break
		}
		line := fmt.Sprintf("%-6s %s", q.Symbol, p.theme.Signed(q.ChangePct))
		if base+i == p.selectedIndex && p.focused {
			line = p.theme.SelectedRow.Render(line)
		}
		rows = append(rows, line)
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetFocus sets the focus state.
func (p *MoversPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *MoversPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
