package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "memory", c.Store.Backend)
	assert.Equal(t, 5, c.News.MaxHeadlines)
	assert.Equal(t, 5*time.Second, c.Sentiment.Timeout)
	assert.Equal(t, 45*time.Second, c.Gemini.Timeout)
	assert.False(t, c.Scheduler.Enabled)
	assert.NoError(t, c.Validate())
}

func TestParse_OverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
store:
  backend: clickhouse
scheduler:
  enabled: true
  interval: 30m
news:
  topic: Inflation
`))
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "clickhouse", c.Store.Backend)
	assert.Equal(t, 30*time.Minute, c.Scheduler.Interval)
	assert.Equal(t, "Inflation", c.News.Topic)
	// untouched fields keep their defaults
	assert.Equal(t, "gemini-2.0-flash", c.Gemini.Model)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad backend":    "store:\n  backend: postgres\n",
		"too many heads": "news:\n  max_headlines: 6\n",
		"fast scheduler": "scheduler:\n  enabled: true\n  interval: 10s\n",
		"kafka no hosts": "kafka:\n  enabled: true\n",
		"bad port":       "server:\n  port: 70000\n",
		"not yaml":       "server: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	env := map[string]string{
		"GOOGLE_API_KEY": "g-key",
		"FRED_API_KEY":   "f-key",
		"KAFKA_BROKERS":  "k1:9092,k2:9092",
		"REDIS_ADDR":     "cache:6379",
		"NEWS_TOPIC":     "Jobs report",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "g-key", c.Gemini.APIKey)
	assert.Equal(t, "f-key", c.FRED.APIKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, "cache:6379", c.Redis.Addr)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "Jobs report", c.News.Topic)
}

func TestLoadWithEnv_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("FRED_API_KEY", "from-env")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.FRED.APIKey)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestLoadWithEnv_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0o600))

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, c.Server.Port)
}
