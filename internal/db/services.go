package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const serviceColumns = `id, site_id, name, description, price, sort_order, created_at, updated_at`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.SiteID, &s.Name, &s.Description, &s.Price,
		&s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateService adds a service to a site.
func (db *DB) CreateService(ctx context.Context, siteID uuid.UUID, name, description, price string, sortOrder int) (*Service, error) {
	if name == "" {
		return nil, fmt.Errorf("service name is required")
	}

	svc, err := scanService(db.pool.QueryRow(ctx,
		`INSERT INTO services (site_id, name, description, price, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+serviceColumns,
		siteID, name, description, price, sortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

// GetServiceByID retrieves a service. Returns (nil, nil) when not found.
func (db *DB) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	svc, err := scanService(db.pool.QueryRow(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// ListServicesBySite retrieves all services for a site in sort order.
func (db *DB) ListServicesBySite(ctx context.Context, siteID uuid.UUID) ([]Service, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE site_id = $1 ORDER BY sort_order, created_at`,
		siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *svc)
	}
	return services, nil
}

// UpdateService replaces a service's editable fields.
func (db *DB) UpdateService(ctx context.Context, id uuid.UUID, name, description, price string, sortOrder int) (*Service, error) {
	svc, err := scanService(db.pool.QueryRow(ctx,
		`UPDATE services SET name = $1, description = $2, price = $3, sort_order = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+serviceColumns,
		name, description, price, sortOrder, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return svc, nil
}

// DeleteService removes a service.
func (db *DB) DeleteService(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}
