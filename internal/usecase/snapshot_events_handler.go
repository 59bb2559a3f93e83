package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	drepo "MacroPulse/internal/domain/repository"
	pkgkafka "MacroPulse/pkg/kafka"
)

// SnapshotWarmer stores a snapshot announced by another instance in the local read cache.
type SnapshotWarmer interface {
	Warm(ctx context.Context, s models.Snapshot) error
}

// SnapshotEventsHandler consumes snapshot events and warms the read cache.
type SnapshotEventsHandler struct {
	topic   string
	warmer  SnapshotWarmer
	metrics drepo.Metrics
}

func NewSnapshotEventsHandler(topic string, warmer SnapshotWarmer, metrics drepo.Metrics) *SnapshotEventsHandler {
	return &SnapshotEventsHandler{topic: topic, warmer: warmer, metrics: metrics}
}

func (h *SnapshotEventsHandler) Topic() string { return h.topic }

// Handle decodes the snapshot payload published after each successful append.
func (h *SnapshotEventsHandler) Handle(ctx context.Context, b []byte) error {
	var s models.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode snapshot event: %w", err)
	}
	if s.ID == "" || s.CreatedAt.IsZero() {
		h.metrics.RecordError("consumer_invalid")
		return fmt.Errorf("snapshot event missing id or createdAt")
	}
	s.MarketData = s.MarketData.Normalize()

	h.metrics.RecordLatency("snapshot_event_lag", time.Since(s.CreatedAt).Seconds())
	if err := h.warmer.Warm(ctx, s); err != nil {
		h.metrics.RecordError("consumer_warm")
		return fmt.Errorf("warm snapshot %s: %w", s.ID, err)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*SnapshotEventsHandler)(nil)
