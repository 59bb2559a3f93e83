package cnn

import (
	"context"
	"errors"
	"fmt"
	"math"

	"MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/upstream"
)

// ErrNoScore is returned when the payload carries no usable score.
var ErrNoScore = errors.New("cnn: fear and greed score missing")

type graphResponse struct {
	FearAndGreed struct {
		Score     *float64 `json:"score"`
		Rating    string   `json:"rating"`
		Timestamp string   `json:"timestamp"`
	} `json:"fear_and_greed"`
}

// Client reads the CNN fear and greed index.
type Client struct {
	base *upstream.Base
	url  string
}

func NewClient(url string, base *upstream.Base) *Client {
	return &Client{base: base, url: url}
}

// FearGreedScore returns the current score. A zero, negative, or out-of-range value
// is treated as missing.
func (c *Client) FearGreedScore(ctx context.Context) (float64, error) {
	var resp graphResponse
	if err := c.base.GetJSON(ctx, c.url, nil, &resp); err != nil {
		return 0, fmt.Errorf("fear and greed: %w", err)
	}
	s := resp.FearAndGreed.Score
	if s == nil || *s <= 0 || *s > 100 || math.IsNaN(*s) {
		return 0, ErrNoScore
	}
	return *s, nil
}

var _ repository.SentimentProvider = (*Client)(nil)
