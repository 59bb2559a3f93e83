package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"MacroPulse/internal/domain/models"
	"MacroPulse/internal/domain/repository"
)

// DefaultSnapshotTable is the table name used when none is configured.
const DefaultSnapshotTable = "market_snapshots"

// ClickHouseSnapshotStore persists snapshots as JSON columns in a MergeTree table.
type ClickHouseSnapshotStore struct {
	db       *sql.DB
	database string
	table    string
}

// NewClickHouseSnapshotStore creates a ClickHouse-backed store.
func NewClickHouseSnapshotStore(db *sql.DB, database, table string) *ClickHouseSnapshotStore {
	if table == "" {
		table = DefaultSnapshotTable
	}
	return &ClickHouseSnapshotStore{db: db, database: database, table: table}
}

// SnapshotSchema returns the DDL for the snapshot table.
func SnapshotSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    id String,
    created_at DateTime64(3, 'UTC'),
    market_data String,
    ai_analysis String,
    status LowCardinality(String)
) ENGINE = MergeTree
ORDER BY created_at`, database, table),
	}
}

func (s *ClickHouseSnapshotStore) qualified() string {
	return s.database + "." + s.table
}

func (s *ClickHouseSnapshotStore) Init(ctx context.Context) error {
	for _, stmt := range SnapshotSchema(s.database, s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init snapshot schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseSnapshotStore) Append(ctx context.Context, snap models.Snapshot) error {
	md, ai, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (id, created_at, market_data, ai_analysis, status) VALUES (?, ?, ?, ?, ?)", s.qualified())
	if _, err := s.db.ExecContext(ctx, q, snap.ID, snap.CreatedAt.UTC(), md, ai, string(snap.AIAnalysis.Status)); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

func (s *ClickHouseSnapshotStore) Latest(ctx context.Context) (models.Snapshot, error) {
	out, err := s.Recent(ctx, 1)
	if err != nil {
		return models.Snapshot{}, err
	}
	if len(out) == 0 {
		return models.Snapshot{}, repository.ErrSnapshotNotFound
	}
	return out[0], nil
}

func (s *ClickHouseSnapshotStore) Recent(ctx context.Context, limit int) ([]models.Snapshot, error) {
	q := fmt.Sprintf("SELECT id, created_at, market_data, ai_analysis FROM %s ORDER BY created_at DESC LIMIT ?", s.qualified())
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []models.Snapshot
	for rows.Next() {
		var (
			id     string
			ts     time.Time
			md, ai string
		)
		if err := rows.Scan(&id, &ts, &md, &ai); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(id, ts, md, ai)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *ClickHouseSnapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSnapshotStore) Close() error {
	return nil // the pool belongs to pkg/clickhouse.Client
}

func encodeSnapshot(snap models.Snapshot) (string, string, error) {
	if snap.ID == "" {
		return "", "", errors.New("snapshot id is required")
	}
	md, err := json.Marshal(snap.MarketData.Normalize())
	if err != nil {
		return "", "", fmt.Errorf("encode market data: %w", err)
	}
	ai, err := json.Marshal(snap.AIAnalysis)
	if err != nil {
		return "", "", fmt.Errorf("encode analysis: %w", err)
	}
	return string(md), string(ai), nil
}

func decodeSnapshot(id string, ts time.Time, md, ai string) (models.Snapshot, error) {
	snap := models.Snapshot{ID: id, CreatedAt: ts.UTC()}
	if err := json.Unmarshal([]byte(md), &snap.MarketData); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode market data of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(ai), &snap.AIAnalysis); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode analysis of %s: %w", id, err)
	}
	snap.MarketData = snap.MarketData.Normalize()
	return snap, nil
}

var _ repository.SnapshotStore = (*ClickHouseSnapshotStore)(nil)
