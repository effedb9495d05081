package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// InsightsPanel shows the period performance grid and the company
// profile for the current symbol.
type InsightsPanel struct {
	theme    *styles.Theme
	label    string
	insights *feed.Insights

	focused bool
	width   int
	height  int
}

// NewInsightsPanel creates the panel.
func NewInsightsPanel(theme *styles.Theme) *InsightsPanel {
	return &InsightsPanel{theme: theme}
}

// SetTheme swaps the palette.
func (p *InsightsPanel) SetTheme(theme *styles.Theme) { p.theme = theme }

// SetLabel sets the symbol shown in the panel title.
func (p *InsightsPanel) SetLabel(symbol string) { p.label = symbol }

// SetInsights replaces the panel content.
func (p *InsightsPanel) SetInsights(ins *feed.Insights) { p.insights = ins }

// View renders the period grid in display order, then the profile.
// Periods with no value render as muted dashes rather than dropping
// out of the grid.
func (p *InsightsPanel) View() string {
	var content strings.Builder

	if p.insights == nil {
		content.WriteString(p.theme.Muted.Render("Loading insights..."))
	} else {
		var cells []string
		for _, k := range feed.PeriodKeys {
			cells = append(cells, fmt.Sprintf("%s %s",
				p.theme.Header.Render(k),
				p.theme.Signed(p.insights.Periods[k])))
		}
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(cells, "  ")))
		content.WriteString("\n\n")
		content.WriteString(p.theme.Row.Render(wrap(p.insights.Profile, p.width-6)))
	}

	return renderPanel(p.theme, p.title(), content.String(), p.focused, p.width, p.height)
}

func (p *InsightsPanel) title() string {
	if p.label == "" {
		return "Insights"
	}
	return "Insights - " + p.label
}

// SetFocus sets the focus state.
func (p *InsightsPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *InsightsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// wrap breaks text on word boundaries at the given width.
func wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(text)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if line > 0 && line+1+len(w) > width {
			b.WriteString("\n")
			line = 0
		} else if i > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
