package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// LabelsMsg carries the symbol for the chart, news, and insights
// header labels.
type LabelsMsg struct {
	Symbol string
}

// RepaintMsg asks the UI for a render pass after out-of-band state
// changed (chart retry promotion, background chart load).
type RepaintMsg struct{}

// Relay bridges callbacks fired outside the bubbletea loop into
// program messages. Messages fired before Attach are dropped.
type Relay struct {
	send atomic.Value // func(tea.Msg)
}

// NewRelay creates an unattached relay.
func NewRelay() *Relay { return &Relay{} }

// Attach connects the relay to a running program.
func (r *Relay) Attach(p *tea.Program) {
	r.send.Store(func(msg tea.Msg) { p.Send(msg) })
}

func (r *Relay) post(msg tea.Msg) {
	if f, ok := r.send.Load().(func(tea.Msg)); ok {
		f(msg)
	}
}

// SetSymbolLabels implements the chart controller's label sink.
func (r *Relay) SetSymbolLabels(symbol string) {
	r.post(LabelsMsg{Symbol: symbol})
}

// Repaint requests a render pass.
func (r *Relay) Repaint() {
	r.post(RepaintMsg{})
}
