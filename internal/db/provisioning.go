package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/site-builder/internal/provision"
)

// ProvisionStore persists CRM provisioning records. It implements
// provision.Store.
type ProvisionStore struct {
	db *DB
}

// NewProvisionStore creates a ProvisionStore.
func NewProvisionStore(db *DB) *ProvisionStore {
	return &ProvisionStore{db: db}
}

// Load retrieves the provisioning record for a site. Returns (nil, nil) when
// the saga has never run for the site.
func (s *ProvisionStore) Load(ctx context.Context, siteID string) (*provision.Record, error) {
	id, err := uuid.Parse(siteID)
	if err != nil {
		return nil, fmt.Errorf("invalid site id: %w", err)
	}

	var rec provision.Record
	var stepsJSON, fieldIDsJSON []byte
	err = s.db.pool.QueryRow(ctx,
		`SELECT site_id, crm_location_id, crm_user_id, crm_contact_id, crm_field_ids, steps
		 FROM provisioning
		 WHERE site_id = $1`,
		id,
	).Scan(&rec.SiteID, &rec.CRMLocationID, &rec.CRMUserID, &rec.CRMContactID, &fieldIDsJSON, &stepsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load provisioning record: %w", err)
	}

	if err := json.Unmarshal(stepsJSON, &rec.Steps); err != nil {
		return nil, fmt.Errorf("failed to parse provisioning steps: %w", err)
	}
	if len(fieldIDsJSON) > 0 {
		if err := json.Unmarshal(fieldIDsJSON, &rec.CRMFieldIDs); err != nil {
			return nil, fmt.Errorf("failed to parse provisioning field ids: %w", err)
		}
	}
	return &rec, nil
}

// Save upserts a provisioning record.
func (s *ProvisionStore) Save(ctx context.Context, rec *provision.Record) error {
	id, err := uuid.Parse(rec.SiteID)
	if err != nil {
		return fmt.Errorf("invalid site id: %w", err)
	}

	stepsJSON, err := json.Marshal(rec.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode provisioning steps: %w", err)
	}
	fieldIDsJSON, err := json.Marshal(rec.CRMFieldIDs)
	if err != nil {
		return fmt.Errorf("failed to encode provisioning field ids: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO provisioning (site_id, crm_location_id, crm_user_id, crm_contact_id, crm_field_ids, steps)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (site_id) DO UPDATE SET
		     crm_location_id = $2,
		     crm_user_id = $3,
		     crm_contact_id = $4,
		     crm_field_ids = $5,
		     steps = $6,
		     updated_at = NOW()`,
		id, rec.CRMLocationID, rec.CRMUserID, rec.CRMContactID, fieldIDsJSON, stepsJSON)
	if err != nil {
		return fmt.Errorf("failed to save provisioning record: %w", err)
	}
	return nil
}
