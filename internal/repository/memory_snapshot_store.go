package repository

import (
	"context"
	"sort"
	"sync"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
)

// MemorySnapshotStore keeps snapshots in process. Used for local runs and tests.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	snaps []models.Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Init(context.Context) error { return nil }

func (s *MemorySnapshotStore) Append(_ context.Context, snap models.Snapshot) error {
	c := clone(snap)
	s.mu.Lock()
	defer s.mu.Unlock()
	// keep newest first
	i := sort.Search(len(s.snaps), func(i int) bool { return !s.snaps[i].CreatedAt.After(c.CreatedAt) })
	s.snaps = append(s.snaps, models.Snapshot{})
	copy(s.snaps[i+1:], s.snaps[i:])
	s.snaps[i] = c
	return nil
}

func (s *MemorySnapshotStore) Latest(_ context.Context) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snaps) == 0 {
		return models.Snapshot{}, repository.ErrSnapshotNotFound
	}
	return clone(s.snaps[0]), nil
}

func (s *MemorySnapshotStore) Recent(_ context.Context, limit int) ([]models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit > len(s.snaps) {
		limit = len(s.snaps)
	}
	out := make([]models.Snapshot, 0, limit)
	for _, snap := range s.snaps[:limit] {
		out = append(out, clone(snap))
	}
	return out, nil
}

func (s *MemorySnapshotStore) Health(context.Context) error { return nil }
func (s *MemorySnapshotStore) Close() error                 { return nil }

func clone(s models.Snapshot) models.Snapshot {
	out := s
	out.MarketData = make(models.MarketData, len(s.MarketData))
	for k, v := range s.MarketData {
		out.MarketData[k] = v
	}
	out.AIAnalysis = s.AIAnalysis.Clone()
	return out
}

var _ repository.SnapshotStore = (*MemorySnapshotStore)(nil)
