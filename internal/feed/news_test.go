package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSymbolNewsYahooFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"news":[
			{"title":"Apple ships thing","publisher":"Newswire","link":{"url":"https://x/1"}},
			{"title":"No publisher","link":{"url":"https://x/2"}}
		]}`)
	}))
	defer srv.Close()

	// no API keys: goes straight to yahoo search
	c := NewClient(Config{YahooSearchURL: srv.URL})
	articles, err := c.SymbolNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Source != "Newswire" {
		t.Errorf("expected publisher as source, got %q", articles[0].Source)
	}
	if articles[1].Source != "Yahoo" {
		t.Errorf("missing publisher should default to Yahoo, got %q", articles[1].Source)
	}
}

func TestSymbolNewsFinnhubFirst(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `[{"headline":"h","url":"u","source":"s","summary":"x","datetime":1700000000}]`)
	}))
	defer srv.Close()

	c := NewClient(Config{FinnhubURL: srv.URL, FinnhubKey: "k"})
	articles, err := c.SymbolNews(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/company-news" {
		t.Errorf("expected finnhub company-news path, got %q", path)
	}
	if len(articles) != 1 || articles[0].Title != "h" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if articles[0].PublishedAt == "" {
		t.Error("expected RFC3339 published time from unix datetime")
	}
}

func TestMarketNewsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"news":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{YahooSearchURL: srv.URL})
	articles, err := c.MarketNews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty list, got %d", len(articles))
	}
}

func TestCalendarUnconfigured(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.Calendar(context.Background()); err == nil {
		t.Fatal("expected error when no calendar endpoint configured")
	}
}

func TestMacroFillsMetricName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"code":"US","value":3.1},{"code":"DE","value":null}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{MacroURL: srv.URL})
	series, err := c.Macro(context.Background(), "cpi_yoy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Metric != "cpi_yoy" {
		t.Errorf("expected metric backfilled, got %q", series.Metric)
	}
	if len(series.Data) != 2 || series.Data[1].Value != nil {
		t.Errorf("unexpected data: %+v", series.Data)
	}
}
