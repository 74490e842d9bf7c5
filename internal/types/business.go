// Package types provides type definitions for structured data used throughout the site-builder system.
package types

import "time"

// ReviewSummary is an aggregate review signal from a directory source.
type ReviewSummary struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// DayHours describes opening hours for a single weekday.
type DayHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`  // "08:00"
	Close string `json:"close"` // "17:00"
}

// GbpFacts holds fields sourced from a Google Business Profile location.
// All fields are optional; absent fields contribute nothing to scoring.
type GbpFacts struct {
	BusinessName    string            `json:"business_name,omitempty"`
	Description     string            `json:"description,omitempty"`
	PrimaryCategory string            `json:"primary_category,omitempty"`
	Categories      []string          `json:"categories,omitempty"`
	PhotoURLs       []string          `json:"photo_urls,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Reviews         *ReviewSummary    `json:"reviews,omitempty"`
	Hours           []DayHours        `json:"hours,omitempty"`
	Services        []string          `json:"services,omitempty"`
}

// PlacesFacts holds fields sourced from the Places API. The shape overlaps
// GbpFacts but is distinct: Places carries its own review aggregate, a price
// level, and untyped place types instead of curated categories.
type PlacesFacts struct {
	Name       string         `json:"name,omitempty"`
	Types      []string       `json:"types,omitempty"`
	PhotoRefs  []string       `json:"photo_refs,omitempty"`
	Reviews    *ReviewSummary `json:"reviews,omitempty"`
	PriceLevel int            `json:"price_level,omitempty"` // 0 = unknown, 1-4 otherwise
	Website    string         `json:"website,omitempty"`
}

// ManualFacts holds fields entered by the business owner during onboarding.
type ManualFacts struct {
	YearsInBusiness int      `json:"years_in_business,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
	Awards          []string `json:"awards,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	TeamSize        int      `json:"team_size,omitempty"`
}

// BusinessRecord is normalized external business data. It is immutable once
// fetched; a re-fetch replaces the whole record rather than mutating fields.
type BusinessRecord struct {
	Name        string     `json:"name"`
	Street      string     `json:"street,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Zip         string     `json:"zip,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Website     string     `json:"website,omitempty"`
	Latitude    float64    `json:"latitude,omitempty"`
	Longitude   float64    `json:"longitude,omitempty"`
	Industry    string     `json:"industry,omitempty"`
	Hours       []DayHours `json:"hours,omitempty"`
	PhotoURLs   []string   `json:"photo_urls,omitempty"`
	GBPLocation string     `json:"gbp_location_id,omitempty"`
	PlaceID     string     `json:"place_id,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// Sources bundles the optional fact sources consumed by scoring and content
// generation. Any combination of the three may be nil.
type Sources struct {
	GBP    *GbpFacts    `json:"gbp,omitempty"`
	Places *PlacesFacts `json:"places,omitempty"`
	Manual *ManualFacts `json:"manual,omitempty"`
}
