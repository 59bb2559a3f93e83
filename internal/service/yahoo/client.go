package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/upstream"
)

// ErrNoQuote is returned when the quote endpoint answers without a result for the ticker.
var ErrNoQuote = errors.New("yahoo: no quote in response")

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
	} `json:"news"`
}

// Client reads quotes and news search results from Yahoo Finance.
type Client struct {
	base      *upstream.Base
	quoteURL  string
	searchURL string
}

// NewClient builds a Yahoo client over the given base.
func NewClient(quoteURL, searchURL string, base *upstream.Base) *Client {
	return &Client{base: base, quoteURL: quoteURL, searchURL: searchURL}
}

// Quote returns the latest price and percent change for ticker.
// Missing price fields read as 0.
func (c *Client) Quote(ctx context.Context, ticker string) (repository.Quote, error) {
	var resp quoteResponse
	q := url.Values{"symbols": {ticker}}
	if err := c.base.GetJSON(ctx, c.quoteURL, q, &resp); err != nil {
		return repository.Quote{}, fmt.Errorf("quote %s: %w", ticker, err)
	}
	if e := resp.QuoteResponse.Error; e != nil {
		return repository.Quote{}, fmt.Errorf("quote %s: %s: %s", ticker, e.Code, e.Description)
	}

	results := resp.QuoteResponse.Result
	if len(results) == 0 {
		return repository.Quote{}, fmt.Errorf("quote %s: %w", ticker, ErrNoQuote)
	}
	r := results[0]
	for _, candidate := range results {
		if strings.EqualFold(candidate.Symbol, ticker) {
			r = candidate
			break
		}
	}

	return repository.Quote{
		Symbol:        ticker,
		Price:         deref(r.RegularMarketPrice),
		ChangePercent: deref(r.RegularMarketChangePercent),
	}, nil
}

// Name identifies the primary news origin.
func (c *Client) Name() string { return "yahoo" }

// Headlines returns up to limit non-empty news titles for topic, in upstream order.
func (c *Client) Headlines(ctx context.Context, topic string, limit int) ([]string, error) {
	var resp searchResponse
	q := url.Values{
		"q":           {topic},
		"newsCount":   {strconv.Itoa(limit)},
		"quotesCount": {"0"},
	}
	if err := c.base.GetJSON(ctx, c.searchURL, q, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", topic, err)
	}

	titles := make([]string, 0, limit)
	for _, n := range resp.News {
		t := strings.TrimSpace(n.Title)
		if t == "" {
			continue
		}
		titles = append(titles, t)
		if len(titles) == limit {
			break
		}
	}
	return titles, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

var (
	_ repository.QuoteProvider = (*Client)(nil)
	_ repository.NewsProvider  = (*Client)(nil)
)
