package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domsvc "MacroPulse/internal/domain/service"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without text.
var ErrEmptyResponse = errors.New("gemini: empty response")

// ErrMissingAPIKey is returned by Generate when the client was built without a key.
var ErrMissingAPIKey = errors.New("gemini: api key not configured")

// Client generates JSON text with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient connects to the Gemini API. An empty apiKey yields a client whose
// Generate always fails, so the analyst falls back to its neutral verdict.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return &Client{model: model}, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

func (c *Client) Model() string { return c.model }

// Generate sends a single-turn prompt and asks for a JSON response.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrMissingAPIKey
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var _ domsvc.TextGenerator = (*Client)(nil)
