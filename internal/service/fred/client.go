package fred

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/upstream"
	"MacroPulse/pkg/util"
)

// ErrMissingAPIKey is returned without a request when no API key is configured.
var ErrMissingAPIKey = errors.New("fred: api key not configured")

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
	ErrorMessage string `json:"error_message"`
}

// Client reads series observations from the FRED API.
type Client struct {
	base    *upstream.Base
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string, base *upstream.Base) *Client {
	return &Client{base: base, baseURL: baseURL, apiKey: apiKey}
}

// LatestObservation returns the newest observation of seriesID.
// An empty result or a non-numeric value (FRED uses "." for gaps) yields Missing.
func (c *Client) LatestObservation(ctx context.Context, seriesID string) (repository.Observation, error) {
	obs := repository.Observation{SeriesID: seriesID}
	if c.apiKey == "" {
		return obs, ErrMissingAPIKey
	}

	q := url.Values{
		"series_id":  {seriesID},
		"api_key":    {c.apiKey},
		"file_type":  {"json"},
		"sort_order": {"desc"},
		"limit":      {"1"},
	}
	var resp observationsResponse
	if err := c.base.GetJSON(ctx, c.baseURL, q, &resp); err != nil {
		return obs, fmt.Errorf("series %s: %w", seriesID, err)
	}
	if resp.ErrorMessage != "" {
		return obs, fmt.Errorf("series %s: %s", seriesID, resp.ErrorMessage)
	}

	if len(resp.Observations) == 0 {
		obs.Missing = true
		return obs, nil
	}
	latest := resp.Observations[0]
	obs.Date = latest.Date
	if t, ok := util.ParseTime(latest.Date); ok {
		obs.Date = t.Format(util.DateLayout)
	}
	v, ok := util.ParseFloat(latest.Value)
	if !ok {
		obs.Missing = true
		return obs, nil
	}
	obs.Value = v
	return obs, nil
}

var _ repository.MacroProvider = (*Client)(nil)
