package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateRun creates a new onboarding run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, subdomain, gbpLocationID, gbpPlaceID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO onboarding_runs (subdomain, gbp_location_id, gbp_place_id, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		subdomain, gbpLocationID, gbpPlaceID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks an onboarding run as completed or failed
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE onboarding_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// AttachRunSite links a run to the site it created
func (db *DB) AttachRunSite(ctx context.Context, runID, siteID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE onboarding_runs SET site_id = $1 WHERE id = $2`,
		siteID, runID)
	if err != nil {
		return fmt.Errorf("failed to attach site to run: %w", err)
	}
	return nil
}

// GetRun retrieves an onboarding run by ID. Returns (nil, nil) when not
// found.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, site_id, subdomain, gbp_location_id, gbp_place_id, status, created_at, completed_at
		 FROM onboarding_runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.SiteID, &r.Subdomain, &r.GBPLocationID, &r.GBPPlaceID,
		&r.Status, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns retrieves recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, site_id, subdomain, gbp_location_id, gbp_place_id, status, created_at, completed_at
		 FROM onboarding_runs ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SiteID, &r.Subdomain, &r.GBPLocationID, &r.GBPPlaceID,
			&r.Status, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, nil
}

// SaveArtifact stores a step's output on a run as JSONB. A rerun of the step
// overwrites the previous artifact.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, step, data)
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves a step's stored output. Returns (nil, nil) when the
// step has not produced one.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return content, nil
}

// -----------------------------------------------------------------------------
// Run Steps
// -----------------------------------------------------------------------------

// StartRunStep marks a step in progress, creating the row on first run
func (db *DB) StartRunStep(ctx context.Context, runID uuid.UUID, step string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, status, started_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (run_id, step) DO UPDATE SET
		     status = $3, started_at = NOW(), completed_at = NULL,
		     error_message = NULL, updated_at = NOW()`,
		runID, step, StepStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to start run step: %w", err)
	}
	return nil
}

// FinishRunStep marks a step completed and records its duration
func (db *DB) FinishRunStep(ctx context.Context, runID uuid.UUID, step string) error {
	return db.endRunStep(ctx, runID, step, StepStatusCompleted, nil)
}

// FailRunStep marks a step failed with an error message
func (db *DB) FailRunStep(ctx context.Context, runID uuid.UUID, step, errorMsg string) error {
	return db.endRunStep(ctx, runID, step, StepStatusFailed, &errorMsg)
}

// SkipRunStep marks a step skipped (e.g. provisioning disabled)
func (db *DB) SkipRunStep(ctx context.Context, runID uuid.UUID, step string) error {
	return db.endRunStep(ctx, runID, step, StepStatusSkipped, nil)
}

func (db *DB) endRunStep(ctx context.Context, runID uuid.UUID, step, status string, errorMsg *string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_steps (run_id, step, status, completed_at, error_message)
		 VALUES ($1, $2, $3, NOW(), $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET
		     status = $3,
		     completed_at = NOW(),
		     duration_ms = CASE
		         WHEN run_steps.started_at IS NOT NULL
		         THEN CAST(EXTRACT(EPOCH FROM NOW() - run_steps.started_at) * 1000 AS INT)
		         ELSE NULL
		     END,
		     error_message = $4,
		     updated_at = NOW()`,
		runID, step, status, errorMsg)
	if err != nil {
		return fmt.Errorf("failed to update run step: %w", err)
	}
	return nil
}

// GetRunStep retrieves a step's state. Returns (nil, nil) when the step has
// not run.
func (db *DB) GetRunStep(ctx context.Context, runID uuid.UUID, step string) (*RunStep, error) {
	var s RunStep
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at, duration_ms,
		        error_message, created_at, updated_at
		 FROM run_steps WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&s.ID, &s.RunID, &s.Step, &s.Status, &s.StartedAt, &s.CompletedAt,
		&s.DurationMs, &s.ErrorMessage, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run step: %w", err)
	}
	return &s, nil
}

// ListRunSteps retrieves all steps for a run in creation order
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]RunStep, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, step, status, started_at, completed_at, duration_ms,
		        error_message, created_at, updated_at
		 FROM run_steps WHERE run_id = $1 ORDER BY created_at`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var s RunStep
		if err := rows.Scan(&s.ID, &s.RunID, &s.Step, &s.Status, &s.StartedAt, &s.CompletedAt,
			&s.DurationMs, &s.ErrorMessage, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}
