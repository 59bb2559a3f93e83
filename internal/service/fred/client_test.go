package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"MacroPulse/internal/service/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("file_type"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		assert.Equal(t, "1", q.Get("limit"))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "key", upstream.NewBase("fred"))
}

func TestLatestObservation(t *testing.T) {
	c := serve(t, `{"observations":[{"date":"2024-05-01","value":"5.31"}]}`)

	obs, err := c.LatestObservation(context.Background(), "SOFR")
	require.NoError(t, err)
	assert.False(t, obs.Missing)
	assert.Equal(t, 5.31, obs.Value)
	assert.Equal(t, "2024-05-01", obs.Date)
}

func TestLatestObservation_DotPlaceholder(t *testing.T) {
	c := serve(t, `{"observations":[{"date":"2024-05-01","value":"."}]}`)

	obs, err := c.LatestObservation(context.Background(), "T10YIE")
	require.NoError(t, err)
	assert.True(t, obs.Missing)
	assert.Zero(t, obs.Value)
}

func TestLatestObservation_Empty(t *testing.T) {
	c := serve(t, `{"observations":[]}`)

	obs, err := c.LatestObservation(context.Background(), "WTREGEN")
	require.NoError(t, err)
	assert.True(t, obs.Missing)
}

func TestLatestObservation_ErrorMessage(t *testing.T) {
	c := serve(t, `{"error_message":"Bad Request. The series does not exist."}`)

	_, err := c.LatestObservation(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLatestObservation_NoKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", upstream.NewBase("fred"))

	_, err := c.LatestObservation(context.Background(), "SOFR")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}
