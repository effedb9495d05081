// Package styles holds the lipgloss palette and shared styles for both
// themes. Panels render through a *Theme so a theme switch repaints the
// whole dashboard in one step.
package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme is one complete palette plus the derived styles panels use.
type Theme struct {
	Name string

	UpColor      lipgloss.Color
	DownColor    lipgloss.Color
	AccentColor  lipgloss.Color
	BorderColor  lipgloss.Color
	FocusColor   lipgloss.Color
	TextColor    lipgloss.Color
	DimColor     lipgloss.Color
	MutedColor   lipgloss.Color
	SurfaceColor lipgloss.Color

	Panel        lipgloss.Style
	FocusedPanel lipgloss.Style
	Title        lipgloss.Style
	Header       lipgloss.Style
	Row          lipgloss.Style
	SelectedRow  lipgloss.Style
	Up           lipgloss.Style
	Down         lipgloss.Style
	Muted        lipgloss.Style
	Time         lipgloss.Style
	StatusBar    lipgloss.Style
	StatusKey    lipgloss.Style
	StatusDesc   lipgloss.Style
	ChartAxis    lipgloss.Style
	ChartLabel   lipgloss.Style
	CandleUp     lipgloss.Style
	CandleDown   lipgloss.Style
	Handle       lipgloss.Style
	ActiveHandle lipgloss.Style
	Prompt       lipgloss.Style
}

func derive(t Theme) *Theme {
	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	t.FocusedPanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.FocusColor).
		Padding(0, 1)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.AccentColor).Padding(0, 1)
	t.Header = lipgloss.NewStyle().Bold(true).Foreground(t.DimColor)
	t.Row = lipgloss.NewStyle().Foreground(t.TextColor)
	t.SelectedRow = lipgloss.NewStyle().Foreground(t.TextColor).Background(t.SurfaceColor)
	t.Up = lipgloss.NewStyle().Foreground(t.UpColor)
	t.Down = lipgloss.NewStyle().Foreground(t.DownColor)
	t.Muted = lipgloss.NewStyle().Foreground(t.MutedColor)
	t.Time = lipgloss.NewStyle().Foreground(t.MutedColor)
	t.StatusBar = lipgloss.NewStyle().Background(t.SurfaceColor).Foreground(t.DimColor).Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Foreground(t.AccentColor).Bold(true)
	t.StatusDesc = lipgloss.NewStyle().Foreground(t.DimColor)
	t.ChartAxis = lipgloss.NewStyle().Foreground(t.MutedColor)
	t.ChartLabel = lipgloss.NewStyle().Foreground(t.DimColor)
	t.CandleUp = lipgloss.NewStyle().Foreground(t.UpColor)
	t.CandleDown = lipgloss.NewStyle().Foreground(t.DownColor)
	t.Handle = lipgloss.NewStyle().Foreground(t.BorderColor)
	t.ActiveHandle = lipgloss.NewStyle().Foreground(t.AccentColor).Bold(true)
	t.Prompt = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.FocusColor).
		Padding(0, 1)
	return &t
}

// Dark is the default palette.
func Dark() *Theme {
	return derive(Theme{
		Name:         "dark",
		UpColor:      lipgloss.Color("#10B981"),
		DownColor:    lipgloss.Color("#EF4444"),
		AccentColor:  lipgloss.Color("#7C3AED"),
		BorderColor:  lipgloss.Color("#374151"),
		FocusColor:   lipgloss.Color("#7C3AED"),
		TextColor:    lipgloss.Color("#F9FAFB"),
		DimColor:     lipgloss.Color("#9CA3AF"),
		MutedColor:   lipgloss.Color("#6B7280"),
		SurfaceColor: lipgloss.Color("#1F2937"),
	})
}

// Light is the alternate palette.
func Light() *Theme {
	return derive(Theme{
		Name:         "light",
		UpColor:      lipgloss.Color("#047857"),
		DownColor:    lipgloss.Color("#B91C1C"),
		AccentColor:  lipgloss.Color("#6D28D9"),
		BorderColor:  lipgloss.Color("#D1D5DB"),
		FocusColor:   lipgloss.Color("#6D28D9"),
		TextColor:    lipgloss.Color("#111827"),
		DimColor:     lipgloss.Color("#4B5563"),
		MutedColor:   lipgloss.Color("#9CA3AF"),
		SurfaceColor: lipgloss.Color("#E5E7EB"),
	})
}

// ByName resolves a configured theme name, defaulting to dark.
func ByName(name string) *Theme {
	if name == "light" {
		return Light()
	}
	return Dark()
}

// RenderTitle renders a panel title bar.
func (t *Theme) RenderTitle(title string, focused bool) string {
	style := t.Title
	if focused {
		style = style.Foreground(t.FocusColor)
	}
	return style.Render(title)
}

// Signed renders a percentage with its sign color; nil renders as a
// muted dash.
func (t *Theme) Signed(pct *float64) string {
	if pct == nil {
		return t.Muted.Render("--")
	}
	s := fmt.Sprintf("%+.2f%%", *pct)
	if *pct < 0 {
		return t.Down.Render(s)
	}
	return t.Up.Render(s)
}
