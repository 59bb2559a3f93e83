package repository

import (
	"context"

	"MacroPulse/internal/domain/models"
)

// Quote is one upstream quote.
type Quote struct {
	Symbol        string
	Price         float64
	ChangePercent float64
}

// QuoteProvider fetches a quote for a single ticker.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (Quote, error)
}

// Observation is the latest value of an economic series. Missing is set when the
// provider reported no usable value (for example a "." placeholder).
type Observation struct {
	SeriesID string
	Date     string
	Value    float64
	Missing  bool
}

// MacroProvider fetches the most recent observation of a series.
type MacroProvider interface {
	LatestObservation(ctx context.Context, seriesID string) (Observation, error)
}

// SentimentProvider fetches the raw fear/greed score.
type SentimentProvider interface {
	FearGreedScore(ctx context.Context) (float64, error)
}

// NewsProvider fetches up to limit headlines for a topic.
type NewsProvider interface {
	Name() string
	Headlines(ctx context.Context, topic string, limit int) ([]string, error)
}

// SnapshotPublisher announces persisted snapshots to other instances.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, s models.Snapshot) error
	Close() error
}

// Metrics records cycle and source observability.
type Metrics interface {
	RecordSourceFetch(source, outcome string)
	ObserveCycle(seconds float64, result string)
	RecordError(kind string)
	RecordInstrumentValue(key string, value float64)
	RecordLatency(op string, seconds float64)
}
