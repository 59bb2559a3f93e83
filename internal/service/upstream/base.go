package upstream

import (
	"context"
	"fmt"
	"net/url"
	"time"

	xhttp "MacroPulse/pkg/http"
)

// Waiter paces outgoing requests. *rate.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Option configures Base.
type Option func(*Base)

// Base provides a shared foundation for JSON upstream clients.
// It centralizes client construction, pacing and GET retries.
type Base struct {
	name      string
	timeout   time.Duration
	userAgent string
	limiter   Waiter
	attempts  int
	backoff   time.Duration
	client    *xhttp.Client
}

// NewBase builds a client for the named upstream.
func NewBase(name string, opts ...Option) *Base {
	b := &Base{
		name:     name,
		timeout:  10 * time.Second,
		attempts: 1,
		backoff:  50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}

	clientOpts := []xhttp.ClientOption{xhttp.WithTimeout(b.timeout)}
	if b.userAgent != "" {
		clientOpts = append(clientOpts, xhttp.WithUserAgent(b.userAgent))
	}
	b.client = xhttp.NewClient(clientOpts...)
	return b
}

// Name returns the upstream name used in errors and logs.
func (b *Base) Name() string { return b.name }

// GetJSON issues a GET against rawURL with query and decodes the JSON body into dest.
// Transport errors, 429 and 5xx are retried up to the configured attempts.
func (b *Base) GetJSON(ctx context.Context, rawURL string, query url.Values, dest interface{}) error {
	var err error
	for i := 1; i <= b.attempts; i++ {
		if b.limiter != nil {
			if werr := b.limiter.Wait(ctx); werr != nil {
				return fmt.Errorf("%s: wait for limiter: %w", b.name, werr)
			}
		}

		err = b.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         rawURL,
			Headers:     map[string]string{"Accept": "application/json"},
			QueryParams: query,
		}, dest)
		if err == nil {
			return nil
		}
		if i == b.attempts || !xhttp.IsTemporary(err) {
			break
		}

		select {
		case <-time.After(time.Duration(i) * b.backoff):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", b.name, ctx.Err())
		}
	}
	return fmt.Errorf("%s get: %w", b.name, err)
}

// WithTimeout bounds every single request.
func WithTimeout(d time.Duration) Option {
	return func(b *Base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(b *Base) { b.userAgent = ua }
}

// WithLimiter paces requests through w.
func WithLimiter(w Waiter) Option {
	return func(b *Base) { b.limiter = w }
}

// WithRetry sets the total attempt count and the linear backoff step.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(b *Base) {
		if attempts > 0 {
			b.attempts = attempts
		}
		if backoff > 0 {
			b.backoff = backoff
		}
	}
}
