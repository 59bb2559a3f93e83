package repository

import (
	"context"
	"errors"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
	"MacroPulse/pkg/cache"
	"MacroPulse/pkg/logger"
)

// LatestSnapshotKey holds the newest snapshot in the cache.
const LatestSnapshotKey = "snapshot:latest"

// CachedSnapshotStore fronts a durable store with a latest-snapshot cache.
// Writes go to the durable store first; cache failures never fail a read.
type CachedSnapshotStore struct {
	store repository.SnapshotStore
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSnapshotStore(store repository.SnapshotStore, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedSnapshotStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedSnapshotStore{store: store, cache: c, ttl: ttl, log: log}
}

func (s *CachedSnapshotStore) Init(ctx context.Context) error { return s.store.Init(ctx) }

func (s *CachedSnapshotStore) Append(ctx context.Context, snap models.Snapshot) error {
	if err := s.store.Append(ctx, snap); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, LatestSnapshotKey, snap, s.ttl); err != nil {
		s.log.Warn("latest snapshot cache refresh failed", logger.String("id", snap.ID), logger.Error(err))
	}
	return nil
}

func (s *CachedSnapshotStore) Latest(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	err := s.cache.Get(ctx, LatestSnapshotKey, &snap)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("latest snapshot cache read failed", logger.Error(err))
	}

	snap, err = s.store.Latest(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := s.cache.Set(ctx, LatestSnapshotKey, snap, s.ttl); err != nil {
		s.log.Warn("latest snapshot cache fill failed", logger.Error(err))
	}
	return snap, nil
}

// Warm stores snap as the cached latest unless a newer one is already cached.
func (s *CachedSnapshotStore) Warm(ctx context.Context, snap models.Snapshot) error {
	var current models.Snapshot
	err := s.cache.Get(ctx, LatestSnapshotKey, &current)
	if err == nil && current.CreatedAt.After(snap.CreatedAt) {
		return nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return err
	}
	return s.cache.Set(ctx, LatestSnapshotKey, snap, s.ttl)
}

func (s *CachedSnapshotStore) Recent(ctx context.Context, limit int) ([]models.Snapshot, error) {
	return s.store.Recent(ctx, limit)
}

func (s *CachedSnapshotStore) Health(ctx context.Context) error { return s.store.Health(ctx) }

func (s *CachedSnapshotStore) Close() error { return s.store.Close() }

var _ repository.SnapshotStore = (*CachedSnapshotStore)(nil)
