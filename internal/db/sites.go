package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrSubdomainTaken is returned when a create or update collides with an
// existing subdomain. Subdomains are globally unique.
var ErrSubdomainTaken = errors.New("subdomain already in use")

const siteColumns = `id, subdomain, business_name, industry, template_id, colors,
       phone, street, city, state, zip, meta_title, meta_description,
       published, gbp_location_id, gbp_place_id, created_at, updated_at`

func scanSite(row pgx.Row) (*Site, error) {
	var s Site
	err := row.Scan(&s.ID, &s.Subdomain, &s.BusinessName, &s.Industry, &s.TemplateID, &s.Colors,
		&s.Phone, &s.Street, &s.City, &s.State, &s.Zip, &s.MetaTitle, &s.MetaDescription,
		&s.Published, &s.GBPLocationID, &s.GBPPlaceID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSite inserts a new site. Returns ErrSubdomainTaken on a subdomain
// collision.
func (db *DB) CreateSite(ctx context.Context, input *SiteCreateInput) (*Site, error) {
	subdomain := NormalizeSubdomain(input.Subdomain)
	if subdomain == "" {
		return nil, fmt.Errorf("subdomain is required")
	}

	site, err := scanSite(db.pool.QueryRow(ctx,
		`INSERT INTO sites (subdomain, business_name, industry, template_id, colors,
		                    phone, street, city, state, zip, gbp_location_id, gbp_place_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+siteColumns,
		subdomain, input.BusinessName, input.Industry, input.TemplateID, input.Colors,
		input.Phone, input.Street, input.City, input.State, input.Zip,
		input.GBPLocationID, input.GBPPlaceID,
	))
	if err != nil {
		if isUniqueViolation(err, "sites_subdomain_key") {
			return nil, ErrSubdomainTaken
		}
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	return site, nil
}

// GetSiteByID retrieves a site by id. Returns (nil, nil) when not found.
func (db *DB) GetSiteByID(ctx context.Context, id uuid.UUID) (*Site, error) {
	site, err := scanSite(db.pool.QueryRow(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return site, nil
}

// GetSiteBySubdomain retrieves a site by its subdomain. Returns (nil, nil)
// when not found.
func (db *DB) GetSiteBySubdomain(ctx context.Context, subdomain string) (*Site, error) {
	site, err := scanSite(db.pool.QueryRow(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE subdomain = $1`,
		NormalizeSubdomain(subdomain)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return site, nil
}

// ListSites retrieves sites newest first, up to limit (default 50).
func (db *DB) ListSites(ctx context.Context, limit int) ([]Site, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+siteColumns+` FROM sites ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, *site)
	}
	return sites, nil
}

// UpdateSite applies the non-nil fields of input. Returns the updated site,
// or (nil, nil) when the site does not exist.
func (db *DB) UpdateSite(ctx context.Context, id uuid.UUID, input *SiteUpdateInput) (*Site, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argPos := 2

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if input.BusinessName != nil {
		add("business_name", *input.BusinessName)
	}
	if input.Industry != nil {
		add("industry", *input.Industry)
	}
	if input.TemplateID != nil {
		add("template_id", *input.TemplateID)
	}
	if input.Colors != nil {
		add("colors", *input.Colors)
	}
	if input.Phone != nil {
		add("phone", *input.Phone)
	}
	if input.Street != nil {
		add("street", *input.Street)
	}
	if input.City != nil {
		add("city", *input.City)
	}
	if input.State != nil {
		add("state", *input.State)
	}
	if input.Zip != nil {
		add("zip", *input.Zip)
	}
	if input.MetaTitle != nil {
		add("meta_title", *input.MetaTitle)
	}
	if input.MetaDescription != nil {
		add("meta_description", *input.MetaDescription)
	}

	query := fmt.Sprintf(
		`UPDATE sites SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), siteColumns)

	site, err := scanSite(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update site: %w", err)
	}
	return site, nil
}

// SetSitePublished flips the published flag.
func (db *DB) SetSitePublished(ctx context.Context, id uuid.UUID, published bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE sites SET published = $1, updated_at = NOW() WHERE id = $2`,
		published, id)
	if err != nil {
		return fmt.Errorf("failed to update published flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteSite removes a site and, via FK cascade, its pages, services,
// snapshots, and provisioning record.
func (db *DB) DeleteSite(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM sites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

// NormalizeSubdomain lowercases and strips characters that cannot appear in
// a DNS label. Spaces become hyphens.
func NormalizeSubdomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
