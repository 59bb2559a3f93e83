package repository

import (
	"context"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	pkgkafka "MacroPulse/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

// Event headers attached to snapshot messages.
const (
	HeaderEvent      = "event"
	HeaderSnapshotID = "snapshot_id"
	EventSnapshot    = "snapshot.created"
)

// KafkaSnapshotPublisher announces persisted snapshots on a topic keyed by id.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, s models.Snapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.ID), s,
		kafka.Header{Key: HeaderEvent, Value: []byte(EventSnapshot)},
		kafka.Header{Key: HeaderSnapshotID, Value: []byte(s.ID)},
	)
}

func (p *KafkaSnapshotPublisher) Close() error {
	return p.producer.Close()
}

var _ repository.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)
