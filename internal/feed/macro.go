package feed

import (
	"context"
	"fmt"
	"net/url"
)

// Calendar fetches the scheduled macro events table. The endpoint is
// deployment-specific; an unconfigured URL is a transport failure the
// scheduler will have logged once and the panel shows its empty state.
func (c *Client) Calendar(ctx context.Context) ([]CalendarEvent, error) {
	if c.cfg.CalendarURL == "" {
		return nil, &Error{Resource: "calendar", Kind: KindTransport, Err: fmt.Errorf("no calendar endpoint configured")}
	}
	var events []CalendarEvent
	if err := c.getJSON(ctx, "calendar", c.cfg.CalendarURL, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Macro fetches one metric's per-country values.
func (c *Client) Macro(ctx context.Context, metric string) (MacroSeries, error) {
	if c.cfg.MacroURL == "" {
		return MacroSeries{}, &Error{Resource: "macro", Kind: KindTransport, Err: fmt.Errorf("no macro endpoint configured")}
	}
	var series MacroSeries
	params := url.Values{"metric": {metric}}
	if err := c.getJSON(ctx, "macro", c.cfg.MacroURL, params, &series); err != nil {
		return MacroSeries{}, err
	}
	if series.Metric == "" {
		series.Metric = metric
	}
	return series, nil
}

// WorldMap fetches the base map dataset from the primary remote
// source. Callers fall back to the bundled dataset when this fails.
func (c *Client) WorldMap(ctx context.Context) ([]byte, error) {
	if c.cfg.WorldMapURL == "" {
		return nil, &Error{Resource: "worldmap", Kind: KindTransport, Err: fmt.Errorf("no world map source configured")}
	}
	return c.get(ctx, "worldmap", c.cfg.WorldMapURL, nil)
}
