package feed

import "fmt"

// Quote is one row of the ticker strip. Price and ChangePct are nil
// when no provider had a value for the symbol.
type Quote struct {
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"price"`
	ChangePct *float64 `json:"change_pct"`
}

// Article is a single news headline from any provider.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
}

// Insights bundles the period performance grid and the profile text
// shown in the insights panel.
type Insights struct {
	Symbol  string
	Periods map[string]*float64 // period key ("1W", "1M", ...) → pct change
	Profile string
}

// PeriodKeys is the display order of the insights performance grid.
var PeriodKeys = []string{"1W", "1M", "3M", "6M", "YTD", "1Y"}

// Movers holds the top gainers and losers derived from the watchlist.
type Movers struct {
	Gainers []Quote `json:"gainers"`
	Losers  []Quote `json:"losers"`
}

// CalendarEvent is one scheduled macro event row.
type CalendarEvent struct {
	Time     string `json:"time"`
	Country  string `json:"country"`
	Event    string `json:"event"`
	Actual   string `json:"actual"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
}

// MacroPoint is one country's value for a macro metric. Value is nil
// when the metric is not published for that country.
type MacroPoint struct {
	Code  string   `json:"code"`
	Value *float64 `json:"value"`
}

// MacroSeries is a macro metric across countries.
type MacroSeries struct {
	Metric string       `json:"metric"`
	Data   []MacroPoint `json:"data"`
}

// ClosePoint is one daily close from the history provider.
type ClosePoint struct {
	Date  string // YYYY-MM-DD
	Close float64
}

// Kind classifies a fetch failure.
type Kind int

const (
	// KindTransport is a network / connection level failure.
	KindTransport Kind = iota
	// KindStatus is a non-success HTTP status.
	KindStatus
	// KindShape is an unexpected or unparseable response body.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindShape:
		return "shape"
	}
	return "unknown"
}

// Error is a typed fetch failure for a named resource.
type Error struct {
	Resource string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.Resource, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
