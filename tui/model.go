// Package tui is the bubbletea front end of the dashboard: one root
// model that routes scheduler results, live trades, key and mouse
// input to the panels, and drives the layout engine for drag resizing.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketterm/internal/chart"
	"marketterm/internal/feed"
	"marketterm/internal/geo"
	"marketterm/internal/layout"
	"marketterm/internal/sched"
	"marketterm/internal/stream"
	"marketterm/internal/symbols"
	"marketterm/tui/panels"
	"marketterm/tui/styles"
)

// PanelFocus identifies the focused panel.
type PanelFocus int

const (
	FocusChart    PanelFocus = 0
	FocusNews     PanelFocus = 1
	FocusInsights PanelFocus = 2
	FocusMovers   PanelFocus = 3
	FocusCalendar PanelFocus = 4
	FocusMacro    PanelFocus = 5

	focusCount = 6
)

// Layout row identifiers for the resize engine.
const (
	rowMain     = "main"
	rowInsights = "insights"
	rowMacro    = "macro"
)

const marqueeInterval = 200 * time.Millisecond

// Deps wires the model to the rest of the application.
type Deps struct {
	ThemeName     string
	InitialSymbol string
	Scheduler     *sched.Scheduler
	Controller    *chart.Controller
	Store         layout.KeyStore
	Watchlist     *symbols.List
	Dataset       geo.Dataset
	Stream        *stream.Feed
}

// Model is the root bubbletea model.
type Model struct {
	theme      *styles.Theme
	scheduler  *sched.Scheduler
	controller *chart.Controller
	engine     *layout.Engine
	store      layout.KeyStore
	watchlist  *symbols.List
	stream     *stream.Feed

	initialSymbol string

	tickerBar     *panels.TickerBarPanel
	chartPanel    *panels.ChartPanel
	newsPanel     *panels.NewsPanel
	insightsPanel *panels.InsightsPanel
	moversPanel   *panels.MoversPanel
	calendarPanel *panels.CalendarPanel
	macroPanel    *panels.MacroMapPanel

	focusedPanel PanelFocus

	prompt      textinput.Model
	promptOpen  bool
	suggestions []string

	width     int
	height    int
	statusMsg string
	ready     bool
}

// NewModel builds the root model and registers the layout rows.
func NewModel(deps Deps) *Model {
	theme := styles.ByName(deps.ThemeName)

	engine := layout.NewEngine(deps.Store, nil)
	engine.AddRow(rowMain, 18)
	engine.AddRow(rowInsights, 10)
	engine.AddCols(rowMain, 0.65, 0.35)
	engine.AddCols(rowInsights, 0.5, 0.5)
	engine.AddCols(rowMacro, 0.5, 0.5)

	prompt := textinput.New()
	prompt.Placeholder = "symbol"
	prompt.CharLimit = 12
	prompt.Prompt = "/ "

	return &Model{
		theme:         theme,
		scheduler:     deps.Scheduler,
		controller:    deps.Controller,
		engine:        engine,
		store:         deps.Store,
		watchlist:     deps.Watchlist,
		stream:        deps.Stream,
		initialSymbol: deps.InitialSymbol,
		tickerBar:     panels.NewTickerBarPanel(theme),
		chartPanel:    panels.NewChartPanel(theme, deps.Controller),
		newsPanel:     panels.NewNewsPanel(theme),
		insightsPanel: panels.NewInsightsPanel(theme),
		moversPanel:   panels.NewMoversPanel(theme),
		calendarPanel: panels.NewCalendarPanel(theme),
		macroPanel:    panels.NewMacroMapPanel(theme, deps.Dataset),
		prompt:        prompt,
	}
}

// Init starts the refresh machinery and the listeners.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		func() tea.Msg {
			m.scheduler.SelectSymbol(m.initialSymbol)
			m.scheduler.Start()
			return nil
		},
		m.listenResults(),
		m.marqueeTick(),
	}
	if m.stream != nil && m.stream.Enabled() {
		cmds = append(cmds, m.listenTrades())
	}
	return tea.Batch(cmds...)
}

type schedResultMsg sched.Result

func (m *Model) listenResults() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.scheduler.Results()
		if !ok {
			return nil
		}
		return schedResultMsg(r)
	}
}

type tradeMsg stream.Trade

func (m *Model) listenTrades() tea.Cmd {
	return func() tea.Msg {
		t, ok := <-m.stream.Trades()
		if !ok {
			return nil
		}
		return tradeMsg(t)
	}
}

type marqueeMsg struct{}

func (m *Model) marqueeTick() tea.Cmd {
	return tea.Tick(marqueeInterval, func(time.Time) tea.Msg {
		return marqueeMsg{}
	})
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case schedResultMsg:
		m.handleResult(sched.Result(msg))
		cmds = append(cmds, m.listenResults())

	case tradeMsg:
		m.tickerBar.ApplyTrade(msg.Symbol, msg.Price)
		cmds = append(cmds, m.listenTrades())

	case marqueeMsg:
		m.tickerBar.Advance()
		cmds = append(cmds, m.marqueeTick())

	case LabelsMsg:
		m.chartPanel.SetLabel(msg.Symbol)
		m.newsPanel.SetLabel(msg.Symbol)
		m.insightsPanel.SetLabel(msg.Symbol)

	case RepaintMsg:
		// render pass only

	case panels.SymbolActivatedMsg:
		m.selectSymbol(msg.Symbol)
	}

	m.updateFocusedPanel(msg, &cmds)
	return m, tea.Batch(cmds...)
}

// handleKey returns handled=true when the key was consumed globally.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.promptOpen {
		return m.handlePromptKey(msg), true
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "/":
		m.promptOpen = true
		m.prompt.SetValue("")
		m.suggestions = nil
		return m.prompt.Focus(), true
	case "t":
		m.toggleTheme()
		return nil, true
	case "r":
		for _, job := range []sched.Job{
			sched.JobTicker, sched.JobNews, sched.JobInsights,
			sched.JobMovers, sched.JobCalendar, sched.JobMacro,
		} {
			m.scheduler.Trigger(job)
		}
		m.statusMsg = "refreshing"
		return nil, true
	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % focusCount
		return nil, true
	case "shift+tab":
		m.focusedPanel--
		if m.focusedPanel < 0 {
			m.focusedPanel = focusCount - 1
		}
		return nil, true
	case "f1":
		m.focusedPanel = FocusChart
		return nil, true
	case "f2":
		m.focusedPanel = FocusNews
		return nil, true
	case "f3":
		m.focusedPanel = FocusInsights
		return nil, true
	case "f4":
		m.focusedPanel = FocusMovers
		return nil, true
	case "f5":
		m.focusedPanel = FocusCalendar
		return nil, true
	case "f6":
		m.focusedPanel = FocusMacro
		return nil, true
	case "right":
		if m.focusedPanel == FocusMacro {
			m.macroPanel.CycleSelection()
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.promptOpen = false
		m.prompt.Blur()
		return nil
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		if len(m.suggestions) > 0 {
			value = m.suggestions[0]
		}
		m.promptOpen = false
		m.prompt.Blur()
		if value != "" {
			m.selectSymbol(value)
		}
		return nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.suggestions = m.watchlist.Suggest(m.prompt.Value(), 5)
	return cmd
}

// selectSymbol is the single entry point for all symbol changes in the
// UI: prompt submits and movers activations both land here.
func (m *Model) selectSymbol(symbol string) {
	applied := m.scheduler.SelectSymbol(symbol)
	if m.stream != nil {
		m.stream.Subscribe(applied)
	}
	m.statusMsg = "watching " + applied
}

func (m *Model) toggleTheme() {
	if m.theme.Name == "dark" {
		m.theme = styles.Light()
	} else {
		m.theme = styles.Dark()
	}
	m.tickerBar.SetTheme(m.theme)
	m.chartPanel.SetTheme(m.theme)
	m.newsPanel.SetTheme(m.theme)
	m.insightsPanel.SetTheme(m.theme)
	m.moversPanel.SetTheme(m.theme)
	m.calendarPanel.SetTheme(m.theme)
	m.macroPanel.SetTheme(m.theme)
	if m.store != nil {
		m.store.Set("theme", m.theme.Name)
	}
}

// handleResult applies a completed refresh to its panel. Error results
// leave the previous content in place.
func (m *Model) handleResult(r sched.Result) {
	if !r.Ok() {
		m.statusMsg = string(r.Job) + " refresh failed"
		if r.Job == sched.JobCalendar {
			m.calendarPanel.SetUnavailable("Calendar unavailable.")
		}
		return
	}
	switch r.Job {
	case sched.JobTicker:
		if quotes, ok := r.Data.([]feed.Quote); ok {
			m.tickerBar.SetQuotes(quotes)
		}
	case sched.JobNews:
		if articles, ok := r.Data.([]feed.Article); ok {
			m.newsPanel.SetArticles(articles)
		}
	case sched.JobInsights:
		if ins, ok := r.Data.(feed.Insights); ok {
			m.insightsPanel.SetInsights(&ins)
		}
	case sched.JobMovers:
		if movers, ok := r.Data.(feed.Movers); ok {
			m.moversPanel.SetMovers(movers)
		}
	case sched.JobCalendar:
		if events, ok := r.Data.([]feed.CalendarEvent); ok {
			m.calendarPanel.SetEvents(events)
		}
	case sched.JobMacro:
		if series, ok := r.Data.(feed.MacroSeries); ok {
			m.macroPanel.SetSeries(series)
		}
	}
}

// Mouse geometry: the ticker strip is row 0; the draggable handles sit
// on the bottom border line of the main and insights rows, and on the
// column seam inside each split row.
func (m *Model) mainBottom() int     { return 1 + m.engine.RowHeight(rowMain) - 1 }
func (m *Model) insightsBottom() int { return m.mainBottom() + m.engine.RowHeight(rowInsights) }

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch {
		case msg.Y == 0:
			if symbol, ok := m.tickerBar.SymbolAt(msg.X); ok {
				m.selectSymbol(symbol)
			}
		case msg.Y == m.mainBottom():
			m.engine.BeginRowResize(rowMain, msg.Y)
		case msg.Y == m.insightsBottom():
			m.engine.BeginRowResize(rowInsights, msg.Y)
		default:
			if row, ok := m.colRowAt(msg.X, msg.Y); ok {
				m.engine.BeginColResize(row, msg.X, 0, m.width)
			}
		}
	case tea.MouseActionMotion:
		if m.engine.Resizing() {
			m.engine.Move(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		m.engine.EndResize()
	}
}

// colRowAt reports which split row's column seam (if any) the pointer
// is on, with one cell of slack either side.
func (m *Model) colRowAt(x, y int) (string, bool) {
	rows := []struct {
		id       string
		from, to int
	}{
		{rowMain, 1, m.mainBottom()},
		{rowInsights, m.mainBottom() + 1, m.insightsBottom()},
		{rowMacro, m.insightsBottom() + 1, m.height - 2},
	}
	for _, r := range rows {
		if y < r.from || y > r.to {
			continue
		}
		left, _ := m.engine.ColSplit(r.id)
		seam := int(left * float64(m.width))
		if x >= seam-1 && x <= seam+1 {
			return r.id, true
		}
	}
	return "", false
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	if m.promptOpen {
		return
	}
	var cmd tea.Cmd
	switch m.focusedPanel {
	case FocusNews:
		m.newsPanel, cmd = m.newsPanel.Update(msg)
	case FocusMovers:
		m.moversPanel, cmd = m.moversPanel.Update(msg)
	case FocusCalendar:
		m.calendarPanel, cmd = m.calendarPanel.Update(msg)
	}
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the dashboard grid.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.newsPanel.SetFocus(m.focusedPanel == FocusNews)
	m.insightsPanel.SetFocus(m.focusedPanel == FocusInsights)
	m.moversPanel.SetFocus(m.focusedPanel == FocusMovers)
	m.calendarPanel.SetFocus(m.focusedPanel == FocusCalendar)
	m.macroPanel.SetFocus(m.focusedPanel == FocusMacro)

	mainH := m.engine.RowHeight(rowMain)
	insightsH := m.engine.RowHeight(rowInsights)
	macroH := m.height - 1 - mainH - insightsH - 1
	if macroH < layout.MinRowHeight {
		macroH = layout.MinRowHeight
	}

	m.tickerBar.SetSize(m.width)

	mainLeft, _ := m.engine.ColSplit(rowMain)
	chartW := int(mainLeft * float64(m.width))
	m.chartPanel.SetSize(chartW, mainH)
	m.newsPanel.SetSize(m.width-chartW, mainH)

	insLeft, _ := m.engine.ColSplit(rowInsights)
	insW := int(insLeft * float64(m.width))
	m.insightsPanel.SetSize(insW, insightsH)
	m.moversPanel.SetSize(m.width-insW, insightsH)

	macroLeft, _ := m.engine.ColSplit(rowMacro)
	calW := int(macroLeft * float64(m.width))
	m.calendarPanel.SetSize(calW, macroH)
	m.macroPanel.SetSize(m.width-calW, macroH)

	mainRow := lipgloss.JoinHorizontal(lipgloss.Top, m.chartPanel.View(), m.newsPanel.View())
	insightsRow := lipgloss.JoinHorizontal(lipgloss.Top, m.insightsPanel.View(), m.moversPanel.View())
	macroRow := lipgloss.JoinHorizontal(lipgloss.Top, m.calendarPanel.View(), m.macroPanel.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tickerBar.View(),
		mainRow,
		insightsRow,
		macroRow,
		m.renderBottomBar(),
	)
}

func (m *Model) renderBottomBar() string {
	if m.promptOpen {
		line := m.prompt.View()
		if len(m.suggestions) > 0 {
			line += m.theme.Muted.Render("  " + strings.Join(m.suggestions, " "))
		}
		return m.theme.StatusBar.Width(m.width).Render(line)
	}

	help := strings.Join([]string{
		m.theme.StatusKey.Render("/") + m.theme.StatusDesc.Render(" symbol"),
		m.theme.StatusKey.Render("t") + m.theme.StatusDesc.Render(" theme"),
		m.theme.StatusKey.Render("r") + m.theme.StatusDesc.Render(" refresh"),
		m.theme.StatusKey.Render("tab") + m.theme.StatusDesc.Render(" focus"),
		m.theme.StatusKey.Render("q") + m.theme.StatusDesc.Render(" quit"),
	}, " │ ")

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}
	if m.engine.Resizing() {
		status += " │ " + m.theme.ActiveHandle.Render("resizing")
	}
	return m.theme.StatusBar.Width(m.width).Render(help + status)
}
