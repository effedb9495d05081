// Package symbols holds the watchlist and symbol-entry helpers.
package symbols

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the edit-distance cutoff for fuzzy matches.
const maxSuggestDistance = 2

// List is an ordered watchlist of uppercase symbols.
type List struct {
	symbols []string
	index   map[string]int
}

// NewList builds a watchlist, normalizing to uppercase and dropping
// duplicates while keeping first-seen order.
func NewList(symbols []string) *List {
	l := &List{index: make(map[string]int, len(symbols))}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := l.index[s]; ok {
			continue
		}
		l.index[s] = len(l.symbols)
		l.symbols = append(l.symbols, s)
	}
	return l
}

// Symbols returns the watchlist in order. Callers must not mutate it.
func (l *List) Symbols() []string { return l.symbols }

// Contains reports whether symbol is on the watchlist.
func (l *List) Contains(symbol string) bool {
	_, ok := l.index[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// Suggest returns up to limit watchlist symbols matching the partial
// input: exact match first, then prefix matches in watchlist order,
// then close fuzzy matches ranked by edit distance.
func (l *List) Suggest(input string, limit int) []string {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" || limit <= 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) bool {
		if seen[s] {
			return len(out) < limit
		}
		seen[s] = true
		out = append(out, s)
		return len(out) < limit
	}

	if l.Contains(input) {
		if !add(input) {
			return out
		}
	}
	for _, s := range l.symbols {
		if strings.HasPrefix(s, input) {
			if !add(s) {
				return out
			}
		}
	}

	type scored struct {
		symbol string
		dist   int
	}
	var fuzzy []scored
	for _, s := range l.symbols {
		if seen[s] {
			continue
		}
		if d := levenshtein.ComputeDistance(input, s); d <= maxSuggestDistance {
			fuzzy = append(fuzzy, scored{symbol: s, dist: d})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })
	for _, f := range fuzzy {
		if !add(f.symbol) {
			break
		}
	}
	return out
}
