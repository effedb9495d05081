// Package layout implements pointer-driven resizing of the dashboard
// grid: draggable row heights and column splits, clamped, persisted on
// every move, and restored across restarts.
package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MinRowHeight is the floor for any draggable row, in cells.
const MinRowHeight = 6

// Persisted key prefixes. Row heights store a single dimension; column
// splits store a comma-separated share pair.
const (
	rowKeyPrefix = "rowh:"
	colKeyPrefix = "cols:"
)

// Column share clamp bounds.
const (
	minShare = 0.25
	maxShare = 0.75
)

// KeyStore is the durable store contract: reads and writes never fail
// from the engine's point of view.
type KeyStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Axis distinguishes the two resizable kinds.
type Axis int

const (
	AxisRow Axis = iota
	AxisCol
)

type rowVar struct {
	height int
}

type colVar struct {
	left  float64
	right float64
}

// session is one live drag gesture. The coordinate extractor is what
// unifies the row (vertical) and column (horizontal) gesture handling.
type session struct {
	axis    Axis
	target  string
	start   int             // anchor coordinate at pointer-down
	extent  int             // row height at pointer-down (rows only)
	rowLeft int             // row origin (cols only)
	rowSpan int             // row width (cols only)
	coord   func(x, y int) int
}

// Engine owns the layout variables and at most one active session per
// axis kind. All methods are intended for the single UI goroutine.
type Engine struct {
	store    KeyStore
	onResize func()

	rows map[string]*rowVar
	cols map[string]*colVar

	rowSession *session
	colSession *session
}

// NewEngine creates an engine over the given store. onResize is the
// re-measure signal raised after every applied move (may be nil).
func NewEngine(store KeyStore, onResize func()) *Engine {
	if onResize == nil {
		onResize = func() {}
	}
	return &Engine{
		store:    store,
		onResize: onResize,
		rows:     make(map[string]*rowVar),
		cols:     make(map[string]*colVar),
	}
}

// AddRow registers a draggable row with its default height and applies
// any persisted height, so the user's prior sizing survives a restart.
func (e *Engine) AddRow(name string, defaultHeight int) {
	h := defaultHeight
	if v, ok := e.store.Get(rowKeyPrefix + name); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			h = parsed
		}
	}
	if h < MinRowHeight {
		h = MinRowHeight
	}
	e.rows[name] = &rowVar{height: h}
}

// AddCols registers a draggable column split for a row and applies any
// persisted share pair. An absent or malformed value leaves defaults.
func (e *Engine) AddCols(rowID string, defaultLeft, defaultRight float64) {
	cv := &colVar{left: defaultLeft, right: defaultRight}
	if v, ok := e.store.Get(colKeyPrefix + rowID); ok {
		parts := strings.Split(v, ",")
		if len(parts) == 2 {
			l, errL := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			r, errR := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errL == nil && errR == nil {
				cv.left, cv.right = l, r
			}
		}
	}
	e.cols[rowID] = cv
}

// RowHeight returns the current height for a registered row.
func (e *Engine) RowHeight(name string) int {
	if rv, ok := e.rows[name]; ok {
		return rv.height
	}
	return MinRowHeight
}

// ColSplit returns the current left/right shares for a row's split.
func (e *Engine) ColSplit(rowID string) (left, right float64) {
	if cv, ok := e.cols[rowID]; ok {
		return cv.left, cv.right
	}
	return 0.5, 0.5
}

// BeginRowResize starts a row drag at pointer coordinate y. Any prior
// session of either kind is discarded so its handling can never leak
// into this gesture, even after a lost release event.
func (e *Engine) BeginRowResize(name string, y int) {
	e.rowSession = nil
	e.colSession = nil
	rv, ok := e.rows[name]
	if !ok {
		return
	}
	e.rowSession = &session{
		axis:   AxisRow,
		target: name,
		start:  y,
		extent: rv.height,
		coord:  func(_, y int) int { return y },
	}
}

// BeginColResize starts a column drag for rowID. rowLeft and rowWidth
// give the row's horizontal extent so the pointer X maps to a ratio.
// Like BeginRowResize, a new press replaces both session kinds.
func (e *Engine) BeginColResize(rowID string, x, rowLeft, rowWidth int) {
	e.rowSession = nil
	e.colSession = nil
	if _, ok := e.cols[rowID]; !ok || rowWidth <= 0 {
		return
	}
	e.colSession = &session{
		axis:    AxisCol,
		target:  rowID,
		start:   x,
		rowLeft: rowLeft,
		rowSpan: rowWidth,
		coord:   func(x, _ int) int { return x },
	}
}

// Move applies the pointer position to any active session: the new
// dimension is clamped, written to the layout variable, persisted
// immediately, and the re-measure signal is raised.
func (e *Engine) Move(x, y int) {
	moved := false
	if s := e.rowSession; s != nil {
		delta := s.coord(x, y) - s.start
		h := s.extent + delta
		if h < MinRowHeight {
			h = MinRowHeight
		}
		e.rows[s.target].height = h
		e.store.Set(rowKeyPrefix+s.target, strconv.Itoa(h))
		moved = true
	}
	if s := e.colSession; s != nil {
		ratio := float64(s.coord(x, y)-s.rowLeft) / float64(s.rowSpan)
		left, right := clampShares(ratio)
		cv := e.cols[s.target]
		cv.left, cv.right = left, right
		e.store.Set(colKeyPrefix+s.target, fmt.Sprintf("%.2f,%.2f", left, right))
		moved = true
	}
	if moved {
		e.onResize()
	}
}

// clampShares applies the split clamp policy: the ratio is held to
// [0.25, 0.75], then each share is rounded to two decimals and floored
// at 0.25 independently. The shares are deliberately not renormalized
// so values persisted by earlier builds read back unchanged.
func clampShares(ratio float64) (left, right float64) {
	if ratio < minShare {
		ratio = minShare
	}
	if ratio > maxShare {
		ratio = maxShare
	}
	left = math.Max(minShare, round2(ratio))
	right = math.Max(minShare, round2(1-ratio))
	return left, right
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// EndResize tears down any active sessions. Safe to call when no drag
// is in progress.
func (e *Engine) EndResize() {
	e.rowSession = nil
	e.colSession = nil
}

// Resizing reports whether any drag session is active, so the UI can
// mark the dragged handle and suppress content churn mid-gesture.
func (e *Engine) Resizing() bool {
	return e.rowSession != nil || e.colSession != nil
}
