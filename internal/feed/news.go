package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SymbolNews fetches headlines for one symbol: Finnhub company news
// over the last 7 days when keyed, then NewsAPI keyword search, then
// Yahoo search without any key.
func (c *Client) SymbolNews(ctx context.Context, symbol string) ([]Article, error) {
	const limit = 30

	if c.cfg.FinnhubKey != "" {
		today := time.Now().UTC()
		params := url.Values{
			"symbol": {symbol},
			"from":   {today.AddDate(0, 0, -7).Format("2006-01-02")},
			"to":     {today.Format("2006-01-02")},
			"token":  {c.cfg.FinnhubKey},
		}
		var items []finnhubArticle
		if err := c.getJSON(ctx, "news/finnhub", c.cfg.FinnhubURL+"/company-news", params, &items); err == nil {
			return finnhubArticles(items, limit), nil
		}
	}

	if c.cfg.NewsAPIKey != "" {
		params := url.Values{
			"q":        {symbol},
			"language": {"en"},
			"pageSize": {strconv.Itoa(limit)},
			"apiKey":   {c.cfg.NewsAPIKey},
		}
		var resp newsAPIResponse
		if err := c.getJSON(ctx, "news/newsapi", c.cfg.NewsAPIURL+"/everything", params, &resp); err == nil {
			return newsAPIArticles(resp), nil
		}
	}

	return c.yahooSearchNews(ctx, symbol, limit)
}

// MarketNews fetches market-wide headlines with the same provider
// ladder, cached for three minutes.
func (c *Client) MarketNews(ctx context.Context) ([]Article, error) {
	if cached, ok := c.cache.get("mktnews", newsTTL); ok {
		return cached.([]Article), nil
	}
	const limit = 50

	if c.cfg.FinnhubKey != "" {
		params := url.Values{
			"category": {"general"},
			"minId":    {"0"},
			"token":    {c.cfg.FinnhubKey},
		}
		var items []finnhubArticle
		if err := c.getJSON(ctx, "news/finnhub", c.cfg.FinnhubURL+"/news", params, &items); err == nil {
			out := finnhubArticles(items, limit)
			c.cache.put("mktnews", out)
			return out, nil
		}
	}

	if c.cfg.NewsAPIKey != "" {
		params := url.Values{
			"country":  {"us"},
			"category": {"business"},
			"pageSize": {strconv.Itoa(limit)},
			"apiKey":   {c.cfg.NewsAPIKey},
		}
		var resp newsAPIResponse
		if err := c.getJSON(ctx, "news/newsapi", c.cfg.NewsAPIURL+"/top-headlines", params, &resp); err == nil {
			out := newsAPIArticles(resp)
			c.cache.put("mktnews", out)
			return out, nil
		}
	}

	out, err := c.yahooSearchNews(ctx, "markets", limit)
	if err != nil {
		return nil, err
	}
	c.cache.put("mktnews", out)
	return out, nil
}

type finnhubArticle struct {
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	Datetime int64  `json:"datetime"`
}

func finnhubArticles(items []finnhubArticle, limit int) []Article {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]Article, 0, len(items))
	for _, a := range items {
		published := ""
		if a.Datetime > 0 {
			published = time.Unix(a.Datetime, 0).UTC().Format(time.RFC3339)
		}
		out = append(out, Article{
			Title:       a.Headline,
			URL:         a.URL,
			Source:      a.Source,
			Summary:     a.Summary,
			PublishedAt: published,
		})
	}
	return out
}

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func newsAPIArticles(resp newsAPIResponse) []Article {
	out := make([]Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Summary:     a.Description,
			PublishedAt: a.PublishedAt,
		})
	}
	return out
}

type yahooSearchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
		Link      struct {
			URL string `json:"url"`
		} `json:"link"`
	} `json:"news"`
}

func (c *Client) yahooSearchNews(ctx context.Context, query string, limit int) ([]Article, error) {
	params := url.Values{
		"q":           {query},
		"quotesCount": {"0"},
		"newsCount":   {fmt.Sprint(limit)},
	}
	var resp yahooSearchResponse
	if err := c.getJSON(ctx, "news/yahoo", c.cfg.YahooSearchURL, params, &resp); err != nil {
		return nil, err
	}
	out := make([]Article, 0, len(resp.News))
	for _, n := range resp.News {
		source := n.Publisher
		if source == "" {
			source = "Yahoo"
		}
		out = append(out, Article{Title: n.Title, URL: n.Link.URL, Source: source})
	}
	return out, nil
}
