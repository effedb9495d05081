// Package chart owns the lifecycle of the externally supplied chart
// widget. The widget factory is a capability: it may not be available
// yet when the first symbol is requested, so the controller renders a
// placeholder and retries on a timer until construction succeeds.
package chart

import (
	"strings"
	"sync"
	"time"
)

// Theme selects the widget's rendering palette.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Options parameterize widget construction.
type Options struct {
	Symbol   string
	Interval string
	Theme    Theme
	Locale   string
}

// Widget is a live chart handle. Retarget switches the displayed
// symbol without rebuilding the widget (preserving any view state the
// widget keeps); View renders into the given cell box.
type Widget interface {
	Retarget(symbol string)
	View(width, height int) string
	Close()
}

// Factory constructs chart widgets. Available reports whether the
// charting capability is usable yet; New may still fail even when it
// is.
type Factory interface {
	Available() bool
	New(Options) (Widget, error)
}

// LabelSink receives the symbol for the chart, news, and insights
// header labels. Label updates happen on every SetSymbol, widget or
// no widget.
type LabelSink interface {
	SetSymbolLabels(symbol string)
}

// State is the controller's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StatePlaceholder         // capability not yet available, retrying
	StateActive              // live widget showing c.symbol
	StateFailed              // construction failed; wait for next SetSymbol
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePlaceholder:
		return "placeholder"
	case StateActive:
		return "active"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Config holds controller policy knobs.
type Config struct {
	// RetryDelay between capability checks while in placeholder state.
	RetryDelay time.Duration
	// MaxRetries bounds placeholder retries; 0 means retry forever.
	MaxRetries int
	Interval   string
	Locale     string
}

func (c Config) withDefaults() Config {
	if c.RetryDelay <= 0 {
		c.RetryDelay = 1200 * time.Millisecond
	}
	if c.Interval == "" {
		c.Interval = "D"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	return c
}

// Controller serializes all chart lifecycle transitions. onChange is
// called (outside the lock) after any asynchronous state change so the
// host UI can repaint.
type Controller struct {
	cfg      Config
	factory  Factory
	labels   LabelSink
	onChange func()

	mu       sync.Mutex
	state    State
	widget   Widget
	symbol   string
	theme    Theme
	message  string
	retry    *time.Timer
	attempts int
}

// NewController creates a controller. onChange may be nil.
func NewController(cfg Config, factory Factory, labels LabelSink, onChange func()) *Controller {
	if onChange == nil {
		onChange = func() {}
	}
	return &Controller{
		cfg:      cfg.withDefaults(),
		factory:  factory,
		labels:   labels,
		onChange: onChange,
		theme:    ThemeDark,
	}
}

// SetSymbol retargets the chart to symbol. The three header labels are
// always updated, even when the widget capability is unavailable. Any
// pending retry timer is canceled so at most one retry chain exists.
func (c *Controller) SetSymbol(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return
	}
	c.labels.SetSymbolLabels(symbol)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelRetryLocked()
	same := symbol == c.symbol
	c.symbol = symbol
	c.attempts = 0

	if c.state == StateActive && c.widget != nil {
		if !same {
			c.widget.Retarget(symbol)
		}
		return
	}
	c.tryConstructLocked()
}

// SetTheme re-renders the chart for the new theme. The widget has no
// in-place theme swap, so an active widget is destroyed and rebuilt.
func (c *Controller) SetTheme(theme Theme) {
	if theme != ThemeDark && theme != ThemeLight {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if theme == c.theme {
		return
	}
	c.theme = theme
	if c.state != StateActive {
		return
	}

	c.cancelRetryLocked()
	if c.widget != nil {
		c.widget.Close()
		c.widget = nil
	}
	c.state = StateUninitialized
	c.tryConstructLocked()
}

// tryConstructLocked attempts widget construction for the current
// symbol, moving to placeholder (with a retry armed) or failed.
func (c *Controller) tryConstructLocked() {
	if !c.factory.Available() {
		c.state = StatePlaceholder
		c.message = "Loading chart..."
		c.armRetryLocked()
		return
	}

	w, err := c.factory.New(Options{
		Symbol:   c.symbol,
		Interval: c.cfg.Interval,
		Theme:    c.theme,
		Locale:   c.cfg.Locale,
	})
	if err != nil {
		c.state = StateFailed
		c.widget = nil
		c.message = "Chart unavailable"
		return
	}
	c.widget = w
	c.state = StateActive
	c.message = ""
}

func (c *Controller) armRetryLocked() {
	c.retry = time.AfterFunc(c.cfg.RetryDelay, c.retryTick)
}

func (c *Controller) cancelRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

// retryTick re-checks capability availability from the retry timer.
// The cap applies after the probe, so MaxRetries n means n real
// re-checks before giving up.
func (c *Controller) retryTick() {
	c.mu.Lock()
	if c.state != StatePlaceholder {
		c.mu.Unlock()
		return
	}
	c.retry = nil
	c.attempts++
	c.tryConstructLocked()
	if c.state == StatePlaceholder && c.cfg.MaxRetries > 0 && c.attempts >= c.cfg.MaxRetries {
		c.cancelRetryLocked()
		c.state = StateFailed
		c.message = "Chart unavailable"
	}
	changed := c.state != StatePlaceholder
	c.mu.Unlock()

	if changed {
		c.onChange()
	}
}

// View renders the chart surface for the current state.
func (c *Controller) View(width, height int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateActive && c.widget != nil {
		return c.widget.View(width, height)
	}
	if c.message != "" {
		return c.message
	}
	return ""
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Symbol returns the most recently requested symbol.
func (c *Controller) Symbol() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbol
}

// Close cancels any pending retry and destroys the widget.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelRetryLocked()
	if c.widget != nil {
		c.widget.Close()
		c.widget = nil
	}
	c.state = StateUninitialized
}

// retryPending reports whether a retry timer is armed (test hook).
func (c *Controller) retryPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retry != nil
}
