package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveBusinessSnapshot inserts a new immutable snapshot of imported business
// data for a site. Older snapshots are kept for history.
func (db *DB) SaveBusinessSnapshot(ctx context.Context, siteID uuid.UUID, record, sources, score json.RawMessage, fetchedAt time.Time) (*BusinessSnapshot, error) {
	var snap BusinessSnapshot
	err := db.pool.QueryRow(ctx,
		`INSERT INTO business_snapshots (site_id, record, sources, score, fetched_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, site_id, record, sources, score, fetched_at, created_at`,
		siteID, record, sources, score, fetchedAt,
	).Scan(&snap.ID, &snap.SiteID, &snap.Record, &snap.Sources, &snap.Score,
		&snap.FetchedAt, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save business snapshot: %w", err)
	}
	return &snap, nil
}

// GetLatestSnapshot retrieves the most recent snapshot for a site. Returns
// (nil, nil) when the site has never been imported.
func (db *DB) GetLatestSnapshot(ctx context.Context, siteID uuid.UUID) (*BusinessSnapshot, error) {
	var snap BusinessSnapshot
	err := db.pool.QueryRow(ctx,
		`SELECT id, site_id, record, sources, score, fetched_at, created_at
		 FROM business_snapshots
		 WHERE site_id = $1
		 ORDER BY fetched_at DESC
		 LIMIT 1`,
		siteID,
	).Scan(&snap.ID, &snap.SiteID, &snap.Record, &snap.Sources, &snap.Score,
		&snap.FetchedAt, &snap.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business snapshot: %w", err)
	}
	return &snap, nil
}

// UpdateSnapshotScore attaches a computed data score to a snapshot.
func (db *DB) UpdateSnapshotScore(ctx context.Context, snapshotID uuid.UUID, score json.RawMessage) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE business_snapshots SET score = $1 WHERE id = $2`,
		score, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to update snapshot score: %w", err)
	}
	return nil
}
