package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MacroPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(id string, at time.Time, vix float64) models.Snapshot {
	md := models.NewMarketData()
	md[models.KeyVIX] = models.InstrumentReading{Price: vix, ChangePercent: 1.5}
	md[models.KeyCNNIndex] = models.InstrumentReading{Price: 80}
	return models.Snapshot{ID: id, MarketData: md, AIAnalysis: models.NeutralVerdict(), CreatedAt: at}
}

func TestLatest_EmptyStoreReturnsWaiting(t *testing.T) {
	q := NewSnapshotQuery(&fakeStore{}, nil)

	s, err := q.Latest(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, models.StatusWaiting, s.AIAnalysis.Status)
	assert.True(t, s.MarketData.Complete())
}

func TestLatest_StoreError(t *testing.T) {
	q := NewSnapshotQuery(&fakeStore{readErr: errors.New("timeout")}, nil)

	_, err := q.Latest(context.Background())
	require.Error(t, err)
}

func TestLatest_ReturnsNewest(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := &fakeStore{snaps: []models.Snapshot{
		snapshotAt("b", t0.Add(time.Hour), 14),
		snapshotAt("a", t0, 13),
	}}

	s, err := NewSnapshotQuery(st, nil).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", s.ID)
}

func TestIndicatorHistory_OldestFirst(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := &fakeStore{snaps: []models.Snapshot{
		snapshotAt("a", t0, 13),
		snapshotAt("b", t0.Add(time.Hour), 14),
		snapshotAt("c", t0.Add(2*time.Hour), 15),
	}}

	pts, err := NewSnapshotQuery(st, nil).IndicatorHistory(context.Background(), models.KeyVIX, 2)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 14.0, pts[0].Value)
	assert.Equal(t, 15.0, pts[1].Value)
}

func TestDashboard_RendersSectors(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	st := &fakeStore{snaps: []models.Snapshot{snapshotAt("a", at, 13.456)}}

	v := NewSnapshotQuery(st, nil).Dashboard(context.Background(), models.LangEN)

	assert.Equal(t, models.StatusNeutral, v.Status)
	assert.Equal(t, "Neutral", v.StatusLabel)
	assert.Equal(t, "Analyzing market data...", v.Briefing)
	require.NotNil(t, v.LastUpdated)
	assert.Empty(t, v.Warning)
	require.Len(t, v.Sectors, len(models.Sectors))

	sentiment := v.Sectors[0]
	assert.Equal(t, models.SectorSentiment, sentiment.ID)
	vix := sentiment.Indicators[0]
	assert.Equal(t, models.KeyVIX, vix.ID)
	assert.Equal(t, "13.46", vix.Value)
	assert.Equal(t, models.SignalRed, vix.Signal)
	cnn := sentiment.Indicators[1]
	assert.Equal(t, models.SignalRed, cnn.Signal)

	total := 0
	for _, s := range v.Sectors {
		total += len(s.Indicators)
	}
	assert.Equal(t, len(models.AllKeys), total)
}

func TestDashboard_StoreErrorDegrades(t *testing.T) {
	st := &fakeStore{readErr: errors.New("down")}

	v := NewSnapshotQuery(st, nil).Dashboard(context.Background(), models.LangKO)
	assert.Equal(t, DashboardWarning.In(models.LangKO), v.Warning)
	assert.Equal(t, models.StatusWaiting, v.Status)
	assert.Nil(t, v.LastUpdated)
	assert.Equal(t, "0.00", v.Sectors[0].Indicators[0].Value)
}

func TestBuildDashboard_UnknownStatusRendersNeutral(t *testing.T) {
	s := snapshotAt("a", time.Now(), 1)
	s.AIAnalysis.Status = "euphoric"

	v := BuildDashboard(s, models.LangJA, "")
	assert.Equal(t, models.StatusNeutral, v.Status)
	assert.Equal(t, "中立", v.StatusLabel)
}
