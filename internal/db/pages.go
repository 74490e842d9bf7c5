package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pageColumns = `id, site_id, slug, title, content, sort_order, published, created_at, updated_at`

func scanPage(row pgx.Row) (*Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.SiteID, &p.Slug, &p.Title, &p.Content,
		&p.SortOrder, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePage inserts a page for a site. Slugs are unique per site.
func (db *DB) CreatePage(ctx context.Context, siteID uuid.UUID, slug, title string, content json.RawMessage, sortOrder int) (*Page, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	page, err := scanPage(db.pool.QueryRow(ctx,
		`INSERT INTO pages (site_id, slug, title, content, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+pageColumns,
		siteID, slug, title, content, sortOrder))
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, fmt.Errorf("page %q already exists for site", slug)
		}
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// GetPage retrieves a page by site and slug. Returns (nil, nil) when not
// found.
func (db *DB) GetPage(ctx context.Context, siteID uuid.UUID, slug string) (*Page, error) {
	page, err := scanPage(db.pool.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE site_id = $1 AND slug = $2`,
		siteID, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// ListPagesBySite retrieves all pages for a site in sort order.
func (db *DB) ListPagesBySite(ctx context.Context, siteID uuid.UUID) ([]Page, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE site_id = $1 ORDER BY sort_order, created_at`,
		siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, *page)
	}
	return pages, nil
}

// UpdatePageContent replaces a page's title and content blocks.
func (db *DB) UpdatePageContent(ctx context.Context, pageID uuid.UUID, title string, content json.RawMessage) (*Page, error) {
	page, err := scanPage(db.pool.QueryRow(ctx,
		`UPDATE pages SET title = $1, content = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+pageColumns,
		title, content, pageID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return page, nil
}

// SetPagePublished flips a page's published flag.
func (db *DB) SetPagePublished(ctx context.Context, pageID uuid.UUID, published bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE pages SET published = $1, updated_at = NOW() WHERE id = $2`,
		published, pageID)
	if err != nil {
		return fmt.Errorf("failed to update page published flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeletePage removes a page.
func (db *DB) DeletePage(ctx context.Context, pageID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, pageID)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}
