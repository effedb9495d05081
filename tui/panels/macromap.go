package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/feed"
	"marketterm/internal/geo"
	"marketterm/tui/styles"
)

// heat ramp, cold to hot, one color per bucket
var heatColors = []lipgloss.Color{
	"#1E3A8A", "#2563EB", "#F59E0B", "#EA580C", "#DC2626",
}

// MacroMapPanel renders a macro metric as a block-per-country
// choropleth strip with a legend. Countries without a published value
// render as muted blocks.
type MacroMapPanel struct {
	theme   *styles.Theme
	dataset geo.Dataset
	series  feed.MacroSeries

	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMacroMapPanel creates the panel over a region dataset.
func NewMacroMapPanel(theme *styles.Theme, dataset geo.Dataset) *MacroMapPanel {
	return &MacroMapPanel{theme: theme, dataset: dataset}
}

// SetTheme swaps the palette.
func (p *MacroMapPanel) SetTheme(theme *styles.Theme) { p.theme = theme }

// SetSeries replaces the metric data.
func (p *MacroMapPanel) SetSeries(s feed.MacroSeries) { p.series = s }

// View renders the strip, the legend, and the highlighted country's
// reading.
func (p *MacroMapPanel) View() string {
	title := "Macro"
	if p.series.Metric != "" {
		title = "Macro - " + p.series.Metric
	}

	values := make(map[string]float64)
	var all []float64
	for _, pt := range p.series.Data {
		if pt.Value != nil {
			values[strings.ToUpper(pt.Code)] = *pt.Value
			all = append(all, *pt.Value)
		}
	}

	var content strings.Builder
	scale, ok := geo.NewScale(all)
	if !ok || len(p.dataset.Regions) == 0 {
		content.WriteString(p.theme.Muted.Render("No macro data."))
		return renderPanel(p.theme, title, content.String(), p.focused, p.width, p.height)
	}

	// one line per region: region label, then a block per country
	for _, region := range p.dataset.Regions {
		content.WriteString(p.theme.Header.Render(fmt.Sprintf("%-22s", region.Name)))
		for _, code := range region.Countries {
			code = strings.ToUpper(code)
			cell := p.theme.Muted.Render("··")
			if v, found := values[code]; found {
				color := heatColors[scale.Bucket(v, len(heatColors))]
				cell = lipgloss.NewStyle().Foreground(color).Render("██")
			}
			content.WriteString(cell)
			content.WriteString(" ")
		}
		content.WriteString("\n")
	}
	content.WriteString(p.legend(scale))

	if len(p.series.Data) > 0 {
		pt := p.series.Data[p.selectedIndex%len(p.series.Data)]
		content.WriteString("\n")
		content.WriteString(p.theme.Header.Render(geo.DisplayName(pt.Code)))
		if pt.Value != nil {
			content.WriteString(p.theme.Row.Render(fmt.Sprintf("  %.2f", *pt.Value)))
		} else {
			content.WriteString(p.theme.Muted.Render("  n/a"))
		}
	}

	return renderPanel(p.theme, title, content.String(), p.focused, p.width, p.height)
}

func (p *MacroMapPanel) legend(scale geo.Scale) string {
	var b strings.Builder
	b.WriteString(p.theme.Muted.Render(fmt.Sprintf("%.1f ", scale.Min)))
	for _, c := range heatColors {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
	}
	b.WriteString(p.theme.Muted.Render(fmt.Sprintf(" %.1f", scale.Max)))
	return b.String()
}

// CycleSelection advances the highlighted country.
func (p *MacroMapPanel) CycleSelection() {
	if len(p.series.Data) > 0 {
		p.selectedIndex = (p.selectedIndex + 1) % len(p.series.Data)
	}
}

// SetFocus sets the focus state.
func (p *MacroMapPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *MacroMapPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
