package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"marketterm/internal/feed"
	"marketterm/tui/styles"
)

// NewsPanel lists headlines for the current symbol.
type NewsPanel struct {
	theme    *styles.Theme
	label    string // symbol shown in the title
	articles []feed.Article

	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewNewsPanel creates the panel.
func NewNewsPanel(theme *styles.Theme) *NewsPanel {
	return &NewsPanel{theme: theme}
}

// SetTheme swaps the palette.
func (p *NewsPanel) SetTheme(theme *styles.Theme) { p.theme = theme }

// SetLabel sets the symbol shown in the panel title.
func (p *NewsPanel) SetLabel(symbol string) { p.label = symbol }

// SetArticles replaces the headline list.
func (p *NewsPanel) SetArticles(articles []feed.Article) {
	p.articles = articles
	if p.selectedIndex >= len(p.articles) {
		p.selectedIndex = len(p.articles) - 1
		if p.selectedIndex < 0 {
			p.selectedIndex = 0
		}
	}
	if p.scrollOffset > p.selectedIndex {
		p.scrollOffset = p.selectedIndex
	}
}

// Selected returns the highlighted article, or nil.
func (p *NewsPanel) Selected() *feed.Article {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.articles) {
		return &p.articles[p.selectedIndex]
	}
	return nil
}

// Update handles key messages while focused.
func (p *NewsPanel) Update(msg tea.Msg) (*NewsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.articles)-1 {
				p.selectedIndex++
				visible := p.visibleRows()
				if p.selectedIndex >= p.scrollOffset+visible {
					p.scrollOffset = p.selectedIndex - visible + 1
				}
			}
		}
	}
	return p, nil
}

func (p *NewsPanel) visibleRows() int {
	v := p.height - 4
	if v < 1 {
		v = 1
	}
	return v
}

// View renders the panel. An empty feed renders exactly one muted
// line, never a blank body.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if len(p.articles) == 0 {
		content.WriteString(p.theme.Muted.Render("No headlines."))
	} else {
		visible := p.visibleRows()
		start := p.scrollOffset
		end := start + visible
		if end > len(p.articles) {
			end = len(p.articles)
		}
		for i := start; i < end; i++ {
			a := p.articles[i]
			headline := truncate(a.Title, p.width-15)
			line := fmt.Sprintf("%s %s %s",
				p.theme.Time.Render(shortTime(a.PublishedAt)),
				p.theme.Header.Render(a.Source),
				p.theme.Row.Render(headline))
			if i == p.selectedIndex && p.focused {
				line = p.theme.SelectedRow.Render(line)
			}
			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}
		if len(p.articles) > visible {
			content.WriteString("\n")
			content.WriteString(p.theme.Muted.Render(
				fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.articles))))
		}
	}

	return renderPanel(p.theme, p.title(), content.String(), p.focused, p.width, p.height)
}

func (p *NewsPanel) title() string {
	if p.label == "" {
		return "News"
	}
	return "News - " + p.label
}

// truncate shortens a headline to maxLen cells on rune boundaries, so
// provider text with curly quotes or accents never gets cut mid-rune.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 3 || len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// shortTime trims an RFC3339 published time down to HH:MM for the row
// prefix; anything unparseable renders as-is, truncated.
func shortTime(published string) string {
	if t, err := time.Parse(time.RFC3339, published); err == nil {
		return t.Local().Format("15:04")
	}
	if len(published) > 5 {
		return published[:5]
	}
	return published
}

// SetFocus sets the focus state.
func (p *NewsPanel) SetFocus(focused bool) { p.focused = focused }

// SetSize sets the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
