package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Site is the core tenant record: one website per business.
type Site struct {
	ID              uuid.UUID `json:"id"`
	Subdomain       string    `json:"subdomain"`
	BusinessName    string    `json:"business_name"`
	Industry        string    `json:"industry,omitempty"`
	TemplateID      string    `json:"template_id"`
	Colors          JSONMap   `json:"colors,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Street          string    `json:"street,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	Zip             string    `json:"zip,omitempty"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Published       bool      `json:"published"`
	GBPLocationID   string    `json:"gbp_location_id,omitempty"`
	GBPPlaceID      string    `json:"gbp_place_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SiteCreateInput holds the fields accepted when creating a site.
type SiteCreateInput struct {
	Subdomain     string
	BusinessName  string
	Industry      string
	TemplateID    string
	Colors        JSONMap
	Phone         string
	Street        string
	City          string
	State         string
	Zip           string
	GBPLocationID string
	GBPPlaceID    string
}

// SiteUpdateInput holds the mutable site fields. Nil fields are left
// unchanged.
type SiteUpdateInput struct {
	BusinessName    *string
	Industry        *string
	TemplateID      *string
	Colors          *JSONMap
	Phone           *string
	Street          *string
	City            *string
	State           *string
	Zip             *string
	MetaTitle       *string
	MetaDescription *string
}

// Page is a site page with its generated content blocks.
type Page struct {
	ID        uuid.UUID       `json:"id"`
	SiteID    uuid.UUID       `json:"site_id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content,omitempty"` // section blocks
	SortOrder int             `json:"sort_order"`
	Published bool            `json:"published"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Service is one offered service listed on a site.
type Service struct {
	ID          uuid.UUID `json:"id"`
	SiteID      uuid.UUID `json:"site_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"` // display string, e.g. "from $99"
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessSnapshot is an immutable import of external business data. A
// re-import inserts a new snapshot rather than mutating the previous one.
type BusinessSnapshot struct {
	ID        uuid.UUID       `json:"id"`
	SiteID    uuid.UUID       `json:"site_id"`
	Record    json.RawMessage `json:"record"`
	Sources   json.RawMessage `json:"sources"`
	Score     json.RawMessage `json:"score,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// JSONMap handles JSONB object columns.
type JSONMap map[string]string

// Scan implements the Scanner interface for JSONMap
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, m)
}

// Value implements the Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
