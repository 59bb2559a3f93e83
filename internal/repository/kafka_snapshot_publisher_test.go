package repository

import (
	"context"
	"encoding/json"
	"testing"

	"MacroPulse/internal/domain/models"
	pkgkafka "MacroPulse/pkg/kafka"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestKafkaSnapshotPublisher(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaSnapshotPublisher(pkgkafka.NewProducerWithWriter(w, "none"), "snapshots")

	in := snap("id-9", t0)
	require.NoError(t, p.PublishSnapshot(context.Background(), in))

	require.Len(t, w.msgs, 1)
	m := w.msgs[0]
	assert.Equal(t, "snapshots", m.Topic)
	assert.Equal(t, "id-9", string(m.Key))
	assert.Equal(t, EventSnapshot, pkgkafka.HeaderValue(m, HeaderEvent))
	assert.Equal(t, "id-9", pkgkafka.HeaderValue(m, HeaderSnapshotID))

	var out models.Snapshot
	require.NoError(t, json.Unmarshal(m.Value, &out))
	assert.Equal(t, in, out)
}
