// Package panels contains the dashboard's UI panels. Every panel
// renders through a *styles.Theme, holds its own cell box, and exposes
// SetFocus/SetSize the same way.
package panels

import (
	"github.com/charmbracelet/lipgloss"

	"marketterm/tui/styles"
)

// SymbolActivatedMsg is emitted when a panel row activates a symbol
// (movers row, suggestion pick). The root model routes it to the
// scheduler's symbol selection.
type SymbolActivatedMsg struct {
	Symbol string
}

// renderPanel wraps content in the shared bordered panel chrome.
func renderPanel(theme *styles.Theme, title, content string, focused bool, width, height int) string {
	style := theme.Panel
	if focused {
		style = theme.FocusedPanel
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.RenderTitle(title, focused),
		content,
	)
	return style.Width(width - 2).Height(height - 2).Render(body)
}
