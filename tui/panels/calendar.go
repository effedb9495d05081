package panels

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// CalendarPanel shows the upcoming economic events table.
type CalendarPanel struct {
	theme  *styles.Theme
	table  table.Model
	events []feed.CalendarEvent
	empty  string

	focused bool
	width   int
	height  int
}

// NewCalendarPanel creates the panel.
func NewCalendarPanel(theme *styles.Theme) *CalendarPanel {
	p := &CalendarPanel{theme: theme, empty: "No calendar data."}
	p.table = table.New(
		table.WithColumns(p.columns(60)),
		table.WithFocused(false),
	)
	p.applyTableStyles()
	return p
}

func (p *CalendarPanel) columns(width int) []table.Column {
	unit := width / 10
	if unit < 4 {
		unit = 4
	}
	return []table.Column{
		{Title: "Time", Width: unit},
		{Title: "Ctry", Width: unit / 2},
		{Title: "Event", Width: unit * 4},
		{Title: "Actual", Width: unit},
		{Title: "Fcst", Width: unit},
		{Title: "Prev", Width: unit},
	}
}

func (p *CalendarPanel) applyTableStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(p.theme.DimColor)
	s.Selected = s.Selected.Foreground(p.theme.TextColor).Background(p.theme.SurfaceColor)
	p.table.SetStyles(s)
}

// SetTheme swaps the palette.
func (p *CalendarPanel) SetTheme(theme *styles.Theme) {
	p.theme = theme
	p.applyTableStyles()
}

// SetEvents replaces the table rows.
func (p *CalendarPanel) SetEvents(events []feed.CalendarEvent) {
	p.events = events
	rows := make([]table.Row, 0, len(events))
	for _, e := range events {
		rows = append(rows, table.Row{e.Time, e.Country, e.Event, e.Actual, e.Forecast, e.Previous})
	}
	p.table.SetRows(rows)
}

// SetUnavailable records why the table is empty (no provider
// configured, fetch failed) so the empty state says so.
func (p *CalendarPanel) SetUnavailable(reason string) {
	if reason != "" {
		p.empty = reason
	}
}

// Update forwards navigation to the table while focused.
func (p *CalendarPanel) Update(msg tea.Msg) (*CalendarPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *CalendarPanel) View() string {
	if len(p.events) == 0 {
		return renderPanel(p.theme, "Calendar", p.theme.Muted.Render(p.empty), p.focused, p.width, p.height)
	}
	return renderPanel(p.theme, "Calendar", p.table.View(), p.focused, p.width, p.height)
}

// SetFocus sets the focus state.
func (p *CalendarPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.table.Focus()
	} else {
		p.table.Blur()
	}
}

// SetSize sets the panel dimensions.
func (p *CalendarPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.table.SetColumns(p.columns(width - 6))
	h := height - 5
	if h < 2 {
		h = 2
	}
	p.table.SetHeight(h)
}
