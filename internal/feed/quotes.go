package feed

import (
	"context"
	"encoding/csv"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// stooqCode maps a US ticker to stooq's symbol coding: lowercase,
// dots become dashes, ".us" suffix (BRK.B → brk-b.us).
func stooqCode(sym string) string {
	return strings.ToLower(strings.ReplaceAll(sym, ".", "-")) + ".us"
}

// Quotes returns one row per requested symbol, trying Yahoo, then
// Stooq, then TwelveData. Rows are normalized: a symbol with no price
// has a nil change; a priced symbol with no change reports 0.0. The
// result is cached briefly so movers can reuse the same table.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if cached, ok := c.cache.get("tickers", tickersTTL); ok {
		return cached.([]Quote), nil
	}

	quotes, err := c.quotesYahoo(ctx, symbols)
	if err != nil || allUnpriced(quotes) {
		quotes, err = c.quotesStooq(ctx, symbols)
	}
	if err != nil || allUnpriced(quotes) {
		quotes, err = c.quotesTwelveData(ctx, symbols)
	}
	if err != nil {
		return nil, err
	}

	norm := normalizeQuotes(symbols, quotes)
	c.cache.put("tickers", norm)
	return norm, nil
}

func allUnpriced(quotes []Quote) bool {
	for _, q := range quotes {
		if q.Price != nil {
			return false
		}
	}
	return true
}

// normalizeQuotes guarantees every requested symbol a row, applies the
// nil-price/zero-change rules, and rounds to two decimals.
func normalizeQuotes(symbols []string, quotes []Quote) []Quote {
	bySym := make(map[string]Quote, len(quotes))
	for _, q := range quotes {
		bySym[strings.ToUpper(q.Symbol)] = q
	}
	out := make([]Quote, 0, len(symbols))
	for _, s := range symbols {
		q := bySym[strings.ToUpper(s)]
		price, change := q.Price, q.ChangePct
		if price == nil {
			change = nil
		} else if change == nil {
			change = ptr(0.0)
		}
		if price != nil {
			price = ptr(round2(*price))
		}
		if change != nil {
			change = ptr(round2(*change))
		}
		out = append(out, Quote{Symbol: s, Price: price, ChangePct: change})
	}
	return out
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
	} `json:"quoteResponse"`
}

func (c *Client) quotesYahoo(ctx context.Context, symbols []string) ([]Quote, error) {
	var out []Quote
	const chunkSize = 35
	for i := 0; i < len(symbols); i += chunkSize {
		chunk := symbols[i:min(i+chunkSize, len(symbols))]

		var resp yahooQuoteResponse
		params := url.Values{"symbols": {strings.Join(chunk, ",")}}
		if err := c.getJSON(ctx, "quotes/yahoo", c.cfg.YahooQuoteURL, params, &resp); err != nil {
			return nil, err
		}

		bySym := make(map[string]map[string]any)
		for _, d := range resp.QuoteResponse.Result {
			if s, _ := d["symbol"].(string); s != "" {
				bySym[strings.ToUpper(s)] = d
			}
		}
		for _, s := range chunk {
			d := bySym[strings.ToUpper(s)]
			q := Quote{Symbol: s}
			q.Price = firstNumber(d, "regularMarketPrice", "postMarketPrice", "bid")
			q.ChangePct = firstNumber(d, "regularMarketChangePercent", "postMarketChangePercent")
			out = append(out, q)
		}
	}
	return out, nil
}

func firstNumber(d map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if v, ok := d[k].(float64); ok {
			return ptr(v)
		}
	}
	return nil
}

func (c *Client) quotesStooq(ctx context.Context, symbols []string) ([]Quote, error) {
	codes := make([]string, len(symbols))
	for i, s := range symbols {
		codes[i] = stooqCode(s)
	}
	params := url.Values{"s": {strings.Join(codes, ",")}, "f": {"sd2t2ohlc"}}
	body, err := c.get(ctx, "quotes/stooq", c.cfg.StooqQuoteURL, params)
	if err != nil {
		return nil, err
	}

	rows, err := parseStooqCSV(string(body))
	if err != nil {
		return nil, &Error{Resource: "quotes/stooq", Kind: KindShape, Err: err}
	}

	out := make([]Quote, len(symbols))
	for i, s := range symbols {
		out[i] = Quote{Symbol: s}
		row, ok := rows[stooqCode(s)]
		if !ok {
			continue
		}
		closeV := parseStooqNumber(row["Close"])
		openV := parseStooqNumber(row["Open"])
		if closeV != nil {
			out[i].Price = ptr(round2(*closeV))
		}
		if closeV != nil && openV != nil && *closeV != 0 && *openV != 0 {
			out[i].ChangePct = ptr(round2((*closeV - *openV) / *openV * 100))
		}
	}
	return out, nil
}

// parseStooqCSV indexes a stooq quote CSV by lowercase symbol column.
func parseStooqCSV(body string) (map[string]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return map[string]map[string]string{}, nil
	}
	header := records[0]
	rows := make(map[string]map[string]string, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		sym := strings.ToLower(strings.TrimSpace(row["Symbol"]))
		if sym != "" {
			rows[sym] = row
		}
	}
	return rows, nil
}

// parseStooqNumber treats stooq's "" and "-" placeholders as absent.
func parseStooqNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (c *Client) quotesTwelveData(ctx context.Context, symbols []string) ([]Quote, error) {
	out := make([]Quote, len(symbols))
	for i, s := range symbols {
		out[i] = Quote{Symbol: s}
	}
	if c.cfg.TwelveDataKey == "" {
		return out, nil
	}

	var resp map[string]map[string]any
	params := url.Values{
		"symbol": {strings.Join(symbols, ",")},
		"apikey": {c.cfg.TwelveDataKey},
	}
	if err := c.getJSON(ctx, "quotes/twelvedata", c.cfg.TwelveDataURL, params, &resp); err != nil {
		return nil, err
	}

	for i, s := range symbols {
		node := resp[s]
		if node == nil {
			continue
		}
		if p := parseStringNumber(node["price"]); p != nil {
			out[i].Price = ptr(round2(*p))
		}
		pct := parseStringNumber(node["percent_change"])
		if pct == nil {
			pct = parseStringNumber(node["change_percent"])
		}
		if pct != nil {
			out[i].ChangePct = ptr(round2(*pct))
		}
	}
	return out, nil
}

// parseStringNumber accepts TwelveData's string-encoded numbers.
func parseStringNumber(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		if t == "" {
			return nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// Movers splits the priced watchlist rows into the top ten gainers and
// losers. Rows missing a change get one recomputed from the last two
// daily closes, defaulting to 0.0 when history is unavailable too.
func (c *Client) Movers(ctx context.Context, symbols []string) (Movers, error) {
	quotes, err := c.Quotes(ctx, symbols)
	if err != nil {
		return Movers{}, err
	}

	var valid []Quote
	for _, q := range quotes {
		if q.Price == nil {
			continue
		}
		if q.ChangePct == nil {
			q.ChangePct = ptr(c.dailyChange(ctx, q.Symbol))
		}
		valid = append(valid, q)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return *valid[i].ChangePct > *valid[j].ChangePct
	})

	m := Movers{}
	m.Gainers = append(m.Gainers, valid[:min(10, len(valid))]...)
	for i := len(valid) - 1; i >= max(0, len(valid)-10); i-- {
		m.Losers = append(m.Losers, valid[i])
	}
	return m, nil
}

func (c *Client) dailyChange(ctx context.Context, symbol string) float64 {
	closes, err := c.History(ctx, symbol, 3)
	if err != nil || len(closes) < 2 {
		return 0.0
	}
	prev := closes[len(closes)-2].Close
	last := closes[len(closes)-1].Close
	if prev == 0 {
		return 0.0
	}
	return round2((last - prev) / prev * 100)
}
