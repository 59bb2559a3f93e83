package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWarmer struct {
	got []models.Snapshot
	err error
}

func (w *recordingWarmer) Warm(_ context.Context, s models.Snapshot) error {
	w.got = append(w.got, s)
	return w.err
}

func TestSnapshotEventsHandler_Warms(t *testing.T) {
	w := &recordingWarmer{}
	h := NewSnapshotEventsHandler("snapshots", w, drepo.NopMetrics{})
	assert.Equal(t, "snapshots", h.Topic())

	s := snapshotAt("id-1", time.Now().UTC(), 12)
	delete(s.MarketData, models.KeyDXY)
	b, err := json.Marshal(s)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), b))
	require.Len(t, w.got, 1)
	assert.Equal(t, "id-1", w.got[0].ID)
	assert.True(t, w.got[0].MarketData.Complete())
}

func TestSnapshotEventsHandler_RejectsBadPayloads(t *testing.T) {
	w := &recordingWarmer{}
	h := NewSnapshotEventsHandler("snapshots", w, drepo.NopMetrics{})

	assert.Error(t, h.Handle(context.Background(), []byte("{")))
	assert.Error(t, h.Handle(context.Background(), []byte(`{"id":""}`)))
	assert.Empty(t, w.got)
}

func TestSnapshotEventsHandler_WarmError(t *testing.T) {
	w := &recordingWarmer{err: errors.New("redis down")}
	h := NewSnapshotEventsHandler("snapshots", w, drepo.NopMetrics{})

	b, _ := json.Marshal(snapshotAt("id-2", time.Now().UTC(), 1))
	assert.Error(t, h.Handle(context.Background(), b))
}
