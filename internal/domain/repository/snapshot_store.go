package repository

import (
	"context"
	"errors"

	"MacroPulse/internal/domain/models"
)

// ErrSnapshotNotFound is returned by Latest when the store holds no snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is append-only persistence of snapshots.
type SnapshotStore interface {
	Init(ctx context.Context) error
	// Append durably persists s. Any error aborts the cycle.
	Append(ctx context.Context, s models.Snapshot) error
	// Latest returns the newest snapshot by creation time, or ErrSnapshotNotFound.
	Latest(ctx context.Context) (models.Snapshot, error)
	// Recent returns up to limit snapshots, newest first.
	Recent(ctx context.Context, limit int) ([]models.Snapshot, error)
	Health(ctx context.Context) error
	Close() error
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordSourceFetch(string, string)      {}
func (NopMetrics) ObserveCycle(float64, string)          {}
func (NopMetrics) RecordError(string)                    {}
func (NopMetrics) RecordInstrumentValue(string, float64) {}
func (NopMetrics) RecordLatency(string, float64)         {}
