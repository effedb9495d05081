package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// periodOffsets maps a performance period to its lookback in business
// days. YTD is computed from the first close of the current year.
var periodOffsets = map[string]int{
	"1W": 5,
	"1M": 21,
	"3M": 63,
	"6M": 126,
	"1Y": 252,
}

// History returns up to days daily closes for symbol, oldest first.
func (c *Client) History(ctx context.Context, symbol string, days int) ([]ClosePoint, error) {
	params := url.Values{"s": {stooqCode(symbol)}, "i": {"d"}}
	body, err := c.get(ctx, "history/stooq", c.cfg.StooqDailyURL, params)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &Error{Resource: "history/stooq", Kind: KindShape, Err: err}
	}
	if len(records) < 2 {
		return nil, &Error{Resource: "history/stooq", Kind: KindShape, Err: fmt.Errorf("no rows for %s", symbol)}
	}

	dateCol, closeCol := -1, -1
	for i, h := range records[0] {
		switch h {
		case "Date":
			dateCol = i
		case "Close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, &Error{Resource: "history/stooq", Kind: KindShape, Err: fmt.Errorf("missing Date/Close columns")}
	}

	var closes []ClosePoint
	for _, rec := range records[1:] {
		if dateCol >= len(rec) || closeCol >= len(rec) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			continue
		}
		closes = append(closes, ClosePoint{Date: rec[dateCol], Close: v})
	}
	sort.Slice(closes, func(i, j int) bool { return closes[i].Date < closes[j].Date })
	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return closes, nil
}

// periodReturn is the pct change over the last bdays business days,
// nil when the series is too short or the base close is zero.
func periodReturn(closes []ClosePoint, bdays int) *float64 {
	if len(closes) <= bdays {
		return nil
	}
	a := closes[len(closes)-1-bdays].Close
	b := closes[len(closes)-1].Close
	if a == 0 {
		return nil
	}
	return ptr((b - a) / a * 100)
}

// ytdReturn is the pct change from the first close of year.
func ytdReturn(closes []ClosePoint, year int) *float64 {
	prefix := fmt.Sprintf("%04d-", year)
	for _, cp := range closes {
		if strings.HasPrefix(cp.Date, prefix) {
			if cp.Close == 0 {
				return nil
			}
			last := closes[len(closes)-1].Close
			return ptr((last - cp.Close) / cp.Close * 100)
		}
	}
	return nil
}

// Insights computes the period performance grid from daily history and
// attaches the profile paragraph for symbol.
func (c *Client) Insights(ctx context.Context, symbol string) (Insights, error) {
	closes, err := c.History(ctx, symbol, 800)
	if err != nil {
		return Insights{}, err
	}

	periods := make(map[string]*float64, len(PeriodKeys))
	for _, key := range PeriodKeys {
		if key == "YTD" {
			periods[key] = ytdReturn(closes, time.Now().UTC().Year())
			continue
		}
		periods[key] = periodReturn(closes, periodOffsets[key])
	}

	return Insights{
		Symbol:  symbol,
		Periods: periods,
		Profile: profileFor(symbol),
	}, nil
}
