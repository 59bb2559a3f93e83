package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarketData_HasEveryKey(t *testing.T) {
	m := NewMarketData()
	assert.Len(t, m, 12)
	assert.True(t, m.Complete())
	for _, k := range AllKeys {
		assert.Equal(t, DefaultReading, m[k])
	}
}

func TestMarketData_NormalizeDropsUnknownAndFillsGaps(t *testing.T) {
	m := MarketData{KeyVIX: {Price: 20}, "bogus": {Price: 1}}
	n := m.Normalize()
	assert.Len(t, n, 12)
	assert.Equal(t, 20.0, n[KeyVIX].Price)
	_, ok := n["bogus"]
	assert.False(t, ok)
}

func TestEmptySnapshot(t *testing.T) {
	s := EmptySnapshot()
	assert.True(t, s.IsEmpty())
	assert.True(t, s.MarketData.Complete())
	assert.Equal(t, StatusWaiting, s.AIAnalysis.Status)
	assert.NotEmpty(t, s.AIAnalysis.Summary)
}

func TestNeutralVerdict(t *testing.T) {
	v := NeutralVerdict()
	assert.Equal(t, StatusNeutral, v.Status)
	assert.Len(t, v.Summary, 1)
	assert.Equal(t, 50.0, v.EstimatedRateProbability)
	assert.Equal(t, 50.0, v.EstimatedSentimentScore)

	// returned by value: callers cannot corrupt the canned default
	v.Summary[0] = "changed"
	assert.Equal(t, "Analyzing market data...", NeutralVerdict().Summary[0])
}

func TestVerdict_JSONNames(t *testing.T) {
	b, err := json.Marshal(NeutralVerdict())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"neutral","summary":["Analyzing market data..."],"estimated_fed_prob":50,"estimated_cnn_score":50}`, string(b))
}

func TestCatalog_CoversEveryKeyOnce(t *testing.T) {
	seen := map[InstrumentKey]int{}
	for _, ind := range Catalog {
		seen[ind.Key]++
		for _, l := range Languages {
			assert.NotEmpty(t, ind.Name.In(l), "%s name in %s", ind.Key, l)
			assert.NotEmpty(t, ind.Description.In(l), "%s description in %s", ind.Key, l)
		}
	}
	for _, k := range AllKeys {
		assert.Equal(t, 1, seen[k], k)
	}
	assert.Len(t, seen, len(AllKeys))
}

func TestInstrumentKey_Valid(t *testing.T) {
	assert.True(t, KeyHighYield.Valid())
	assert.False(t, InstrumentKey("HighYield").Valid())
}

func TestComputeSignal(t *testing.T) {
	cases := []struct {
		name   string
		p      Polarity
		value  float64
		change float64
		want   Signal
	}{
		{"band extreme fear", PolarityBand, 10, 0, SignalRed},
		{"band extreme greed", PolarityBand, 80, 0, SignalRed},
		{"band neutral", PolarityBand, 50, 0, SignalGreen},
		{"band lower edge", PolarityBand, 25, 0, SignalGreen},
		{"band upper edge", PolarityBand, 75, 0, SignalGreen},
		{"inverse spike", PolarityInverse, 0, 1.5, SignalRed},
		{"inverse small rise", PolarityInverse, 0, 0.3, SignalYellow},
		{"inverse exactly one", PolarityInverse, 0, 1.0, SignalYellow},
		{"inverse fall", PolarityInverse, 0, -2, SignalGreen},
		{"direct crash", PolarityDirect, 0, -1.5, SignalRed},
		{"direct dip", PolarityDirect, 0, -0.2, SignalYellow},
		{"direct flat", PolarityDirect, 0, 0, SignalGreen},
		{"direct rise", PolarityDirect, 0, 3, SignalGreen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeSignal(tc.p, tc.value, tc.change))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	s, label := StatusLabel(StatusRisk, LangKO)
	assert.Equal(t, StatusRisk, s)
	assert.Equal(t, "위험", label)

	s, label = StatusLabel("", LangEN)
	assert.Equal(t, StatusNeutral, s)
	assert.Equal(t, "Neutral", label)

	s, label = StatusLabel("bogus", LangJA)
	assert.Equal(t, StatusNeutral, s)
	assert.Equal(t, "中立", label)
}

func TestReport(t *testing.T) {
	r := Report{}
	r.Set("vix", OutcomeOK, "")
	r.Set("tga", OutcomeFail, "timeout")
	other := Report{}
	other.Set(SourceNews, OutcomeFallback, NewsDetail("rss", 3))
	r.Merge(other)

	assert.Equal(t, 1, r.Count(OutcomeFail))
	assert.Equal(t, "fallback rss (3)", r[SourceNews].Detail)
	assert.Equal(t, "ok (5 headlines)", NewsDetail("yahoo", 5))
}
