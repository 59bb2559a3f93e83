package usecase

import (
	"context"
	"testing"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	"MacroPulse/internal/service/fred"
	"MacroPulse/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFetcher_IsolatesFailures(t *testing.T) {
	p := &fakeQuotes{
		quotes: map[string]drepo.Quote{
			"^TNX":  {Price: 4.2, ChangePercent: 0.1},
			"^VIX":  {Price: 15},
			"JPY=X": {Price: 151.3, ChangePercent: -0.2},
		},
		fail: map[string]bool{"BTC-USD": true},
	}
	f := NewQuoteFetcher(p, models.QuoteInstruments, drepo.NopMetrics{}, logger.NewNop())

	res := f.Fetch(context.Background())

	assert.Len(t, res.Readings, len(models.QuoteInstruments))
	assert.Equal(t, models.InstrumentReading{Price: 4.2, ChangePercent: 0.1}, res.Readings[models.KeyUS10Y])
	assert.Equal(t, models.DefaultReading, res.Readings[models.KeyBitcoin])
	assert.False(t, res.OK[models.KeyBitcoin])
	assert.True(t, res.OK[models.KeyVIX])
	assert.Equal(t, models.OutcomeFail, res.Report["bitcoin"].Outcome)
	assert.Equal(t, models.OutcomeOK, res.Report["us10y"].Outcome)
}

func TestQuoteFetcher_AllFail(t *testing.T) {
	fail := map[string]bool{}
	for _, q := range models.QuoteInstruments {
		fail[q.Ticker] = true
	}
	f := NewQuoteFetcher(&fakeQuotes{fail: fail}, models.QuoteInstruments, drepo.NopMetrics{}, logger.NewNop())

	res := f.Fetch(context.Background())
	assert.Len(t, res.Readings, 6)
	assert.Equal(t, 6, res.Report.Count(models.OutcomeFail))
}

func TestMacroFetcher(t *testing.T) {
	p := &fakeMacro{
		values:  map[string]float64{"WTREGEN": 750000, "SOFR": 5.31},
		missing: map[string]bool{"T10YIE": true},
		fail:    map[string]bool{"BAMLH0A0HYM2": true},
	}
	f := NewMacroFetcher(p, models.MacroSeriesSet, drepo.NopMetrics{}, logger.NewNop())

	res := f.Fetch(context.Background())

	assert.Equal(t, 750000.0, res.Values[models.KeyTGA])
	assert.Equal(t, 5.31, res.Values[models.KeySOFR])
	assert.Zero(t, res.Values[models.KeyBreakeven])
	assert.Zero(t, res.Values[models.KeyHighYield])
	assert.Equal(t, "missing value", res.Report["breakeven"].Detail)
	assert.Equal(t, models.OutcomeFail, res.Report["highYield"].Outcome)
	assert.True(t, res.OK[models.KeySOFR])
}

type keylessMacro struct{}

func (keylessMacro) LatestObservation(_ context.Context, id string) (drepo.Observation, error) {
	return drepo.Observation{SeriesID: id}, fred.ErrMissingAPIKey
}

func TestMacroFetcher_MissingKey(t *testing.T) {
	f := NewMacroFetcher(keylessMacro{}, models.MacroSeriesSet, drepo.NopMetrics{}, logger.NewNop())

	res := f.Fetch(context.Background())
	assert.Equal(t, "no api key", res.Report["sofr"].Detail)
	assert.Len(t, res.Values, 4)
}

func TestSentimentFetcher_RoundsScore(t *testing.T) {
	f := NewSentimentFetcher(&fakeSentiment{score: 62.6}, time.Second, drepo.NopMetrics{}, logger.NewNop())

	r := f.Fetch(context.Background())
	assert.True(t, r.Observed)
	assert.Equal(t, 63.0, r.Score)
}

func TestSentimentFetcher_Unavailable(t *testing.T) {
	f := NewSentimentFetcher(&fakeSentiment{err: errUpstream}, time.Second, drepo.NopMetrics{}, logger.NewNop())

	r := f.Fetch(context.Background())
	assert.False(t, r.Observed)
}

func TestNewsFetcher_Primary(t *testing.T) {
	yahoo := &fakeNews{name: "yahoo", headlines: []string{"a", "b"}}
	rss := &fakeNews{name: "rss", headlines: []string{"c"}}
	f := NewNewsFetcher([]drepo.NewsProvider{yahoo, rss}, "Federal Reserve", 5, drepo.NopMetrics{}, logger.NewNop())

	res, st := f.Fetch(context.Background())
	assert.Equal(t, []string{"a", "b"}, res.Headlines)
	assert.Equal(t, "yahoo", res.Origin)
	assert.Empty(t, res.Filler)
	assert.Equal(t, models.SourceStatus{Outcome: models.OutcomeOK, Detail: "ok (2 headlines)"}, st)
	assert.Zero(t, rss.calls)
}

func TestNewsFetcher_FallsBackToRSS(t *testing.T) {
	yahoo := &fakeNews{name: "yahoo", err: errUpstream}
	rss := &fakeNews{name: "rss", headlines: []string{"1", "2", "3", "4", "5", "6"}}
	f := NewNewsFetcher([]drepo.NewsProvider{yahoo, rss}, "Federal Reserve", 5, drepo.NopMetrics{}, logger.NewNop())

	res, st := f.Fetch(context.Background())
	assert.Len(t, res.Headlines, 5)
	assert.Equal(t, "rss", res.Origin)
	assert.Equal(t, models.SourceStatus{Outcome: models.OutcomeFallback, Detail: "fallback rss (5)"}, st)
}

func TestNewsFetcher_NoData(t *testing.T) {
	yahoo := &fakeNews{name: "yahoo"}
	rss := &fakeNews{name: "rss", err: errUpstream}
	f := NewNewsFetcher([]drepo.NewsProvider{yahoo, rss}, "Federal Reserve", 5, drepo.NopMetrics{}, logger.NewNop())

	res, st := f.Fetch(context.Background())
	assert.Empty(t, res.Headlines)
	assert.Equal(t, NewsFillerNoData, res.Filler)
	assert.Equal(t, "no data", st.Detail)
}

func TestNewsFetcher_AllFail(t *testing.T) {
	f := NewNewsFetcher([]drepo.NewsProvider{&fakeNews{name: "yahoo", err: errUpstream}}, "x", 5, drepo.NopMetrics{}, logger.NewNop())

	res, st := f.Fetch(context.Background())
	assert.Equal(t, NewsFillerError, res.Filler)
	assert.Equal(t, models.SourceStatus{Outcome: models.OutcomeFail, Detail: "error"}, st)
}
