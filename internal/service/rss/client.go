package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MacroPulse/internal/domain/repository"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// ErrNotConfigured is returned when no feed template is set.
var ErrNotConfigured = errors.New("rss: feed url not configured")

// Client reads headlines from an RSS or Atom search feed.
type Client struct {
	urlTemplate string
	parser      *gofeed.Parser
}

// NewClient builds a feed client. urlTemplate receives the query-escaped topic through %s.
func NewClient(urlTemplate string, timeout time.Duration, userAgent string) *Client {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &Client{urlTemplate: urlTemplate, parser: p}
}

func (c *Client) Name() string { return "rss" }

// Headlines returns up to limit cleaned item titles in feed order.
func (c *Client) Headlines(ctx context.Context, topic string, limit int) ([]string, error) {
	if c.urlTemplate == "" {
		return nil, ErrNotConfigured
	}
	feedURL := c.urlTemplate
	if strings.Contains(feedURL, "%s") {
		feedURL = fmt.Sprintf(c.urlTemplate, url.QueryEscape(topic))
	}

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	titles := make([]string, 0, limit)
	for _, item := range feed.Items {
		t := cleanHTML(item.Title)
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

// cleanHTML strips markup and collapses whitespace.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var _ repository.NewsProvider = (*Client)(nil)
