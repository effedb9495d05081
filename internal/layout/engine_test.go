package layout

import (
	"testing"
)

type memStore struct {
	m map[string]string
}

func newMemStore() *memStore { return &memStore{m: make(map[string]string)} }

func (s *memStore) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}
func (s *memStore) Set(key, value string) { s.m[key] = value }

func TestRowResizeClampAndPersist(t *testing.T) {
	st := newMemStore()
	e := NewEngine(st, nil)
	e.AddRow("chart", 20)

	e.BeginRowResize("chart", 10)
	e.Move(0, 15) // +5
	if got := e.RowHeight("chart"); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	e.Move(0, -90) // -100 → clamp to floor
	if got := e.RowHeight("chart"); got != MinRowHeight {
		t.Errorf("expected floor %d, got %d", MinRowHeight, got)
	}
	e.EndResize()

	if v := st.m["rowh:chart"]; v != "6" {
		t.Errorf("expected persisted floor, got %q", v)
	}

	// restore reproduces the last-set height
	e2 := NewEngine(st, nil)
	e2.AddRow("chart", 20)
	if got := e2.RowHeight("chart"); got != MinRowHeight {
		t.Errorf("restore should reproduce %d, got %d", MinRowHeight, got)
	}
}

func TestRowRestoreAbsentKeyKeepsDefault(t *testing.T) {
	e := NewEngine(newMemStore(), nil)
	e.AddRow("chart", 20)
	if got := e.RowHeight("chart"); got != 20 {
		t.Errorf("expected default 20, got %d", got)
	}
}

func TestClampShares(t *testing.T) {
	cases := []struct {
		ratio       float64
		left, right float64
	}{
		{0.25, 0.25, 0.75},
		{0.75, 0.75, 0.25},
		{0.10, 0.25, 0.75}, // clamped low
		{0.90, 0.75, 0.25}, // clamped high
		{0.50, 0.50, 0.50},
		// mid-value rounding: both shares rounded independently, no
		// renormalization of the pair afterwards
		{0.333, 0.33, 0.67},
		{0.256, 0.26, 0.74},
	}
	for _, c := range cases {
		l, r := clampShares(c.ratio)
		if l != c.left || r != c.right {
			t.Errorf("clampShares(%v) = (%v,%v), want (%v,%v)", c.ratio, l, r, c.left, c.right)
		}
	}
}

func TestColResizePersistsPair(t *testing.T) {
	st := newMemStore()
	fired := 0
	e := NewEngine(st, func() { fired++ })
	e.AddCols("main", 0.5, 0.5)

	// row spans x∈[10,110); pointer at x=43 → ratio 0.33
	e.BeginColResize("main", 43, 10, 100)
	e.Move(43, 0)
	l, r := e.ColSplit("main")
	if l != 0.33 || r != 0.67 {
		t.Errorf("expected (0.33,0.67), got (%v,%v)", l, r)
	}
	if st.m["cols:main"] != "0.33,0.67" {
		t.Errorf("expected persisted pair, got %q", st.m["cols:main"])
	}
	if fired != 1 {
		t.Errorf("expected one re-measure signal, got %d", fired)
	}
	e.EndResize()

	// restore round-trips
	e2 := NewEngine(st, nil)
	e2.AddCols("main", 0.5, 0.5)
	l, r = e2.ColSplit("main")
	if l != 0.33 || r != 0.67 {
		t.Errorf("restore expected (0.33,0.67), got (%v,%v)", l, r)
	}
}

func TestEndResizeWithoutBeginIsNoop(t *testing.T) {
	e := NewEngine(newMemStore(), nil)
	e.EndResize() // must not panic
	if e.Resizing() {
		t.Error("expected no active session")
	}
}

func TestNewSessionReplacesOld(t *testing.T) {
	st := newMemStore()
	e := NewEngine(st, nil)
	e.AddRow("chart", 20)
	e.AddRow("news", 30)

	e.BeginRowResize("chart", 10)
	e.BeginRowResize("news", 50) // new pointer-down replaces the session
	e.Move(0, 55)

	if got := e.RowHeight("chart"); got != 20 {
		t.Errorf("stale session leaked into chart row: %d", got)
	}
	if got := e.RowHeight("news"); got != 35 {
		t.Errorf("expected news row 35, got %d", got)
	}
}

func TestCrossAxisPressReplacesSession(t *testing.T) {
	st := newMemStore()
	e := NewEngine(st, nil)
	e.AddRow("chart", 20)
	e.AddCols("main", 0.5, 0.5)

	// row press whose release was lost, then a column press
	e.BeginRowResize("chart", 10)
	e.BeginColResize("main", 50, 0, 100)
	e.Move(43, 60)

	if got := e.RowHeight("chart"); got != 20 {
		t.Errorf("stale row session moved with the column drag: %d", got)
	}
	if l, _ := e.ColSplit("main"); l != 0.43 {
		t.Errorf("column drag should apply alone, got left %v", l)
	}

	// and the other way around
	e.BeginColResize("main", 50, 0, 100)
	e.BeginRowResize("chart", 10)
	e.Move(70, 15)

	if l, _ := e.ColSplit("main"); l != 0.43 {
		t.Errorf("stale column session moved with the row drag: %v", l)
	}
	if got := e.RowHeight("chart"); got != 25 {
		t.Errorf("row drag should apply alone, got %d", got)
	}
}

func TestMoveWithoutSessionDoesNothing(t *testing.T) {
	st := newMemStore()
	fired := 0
	e := NewEngine(st, func() { fired++ })
	e.AddRow("chart", 20)

	e.Move(5, 5)
	if fired != 0 || len(st.m) != 0 {
		t.Error("move without a session must not apply or persist")
	}
}
