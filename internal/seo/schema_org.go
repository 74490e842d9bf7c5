package seo

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/site-builder/internal/types"
)

// LocalBusiness is a schema.org LocalBusiness entity rendered as JSON-LD in
// a site's page head.
type LocalBusiness struct {
	Context   string           `json:"@context"`
	Type      string           `json:"@type"`
	Name      string           `json:"name"`
	URL       string           `json:"url,omitempty"`
	Telephone string           `json:"telephone,omitempty"`
	Address   *postalAddress   `json:"address,omitempty"`
	Geo       *geoCoordinates  `json:"geo,omitempty"`
	Rating    *aggregateRating `json:"aggregateRating,omitempty"`
	Offers    []offerCatalog   `json:"makesOffer,omitempty"`
	Hours     []openingHours   `json:"openingHoursSpecification,omitempty"`
	Image     []string         `json:"image,omitempty"`
}

type postalAddress struct {
	Type     string `json:"@type"`
	Street   string `json:"streetAddress,omitempty"`
	Locality string `json:"addressLocality,omitempty"`
	Region   string `json:"addressRegion,omitempty"`
	Postal   string `json:"postalCode,omitempty"`
}

type geoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type aggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

type offerCatalog struct {
	Type    string       `json:"@type"`
	Offered serviceEntry `json:"itemOffered"`
}

type serviceEntry struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type openingHours struct {
	Type   string `json:"@type"`
	Day    string `json:"dayOfWeek"`
	Opens  string `json:"opens"`
	Closes string `json:"closes"`
}

// ServiceInfo is the name and optional description of one offered service.
type ServiceInfo struct {
	Name        string
	Description string
}

// LocalBusinessJSONLD renders a LocalBusiness entity for a site. siteURL is
// the public URL of the site; reviews may be nil.
func LocalBusinessJSONLD(record types.BusinessRecord, siteURL string, services []ServiceInfo, reviews *types.ReviewSummary) ([]byte, error) {
	if record.Name == "" {
		return nil, fmt.Errorf("business name is required for structured data")
	}

	lb := LocalBusiness{
		Context:   "https://schema.org",
		Type:      "LocalBusiness",
		Name:      record.Name,
		URL:       siteURL,
		Telephone: record.Phone,
		Image:     record.PhotoURLs,
	}

	if record.Street != "" || record.City != "" || record.State != "" || record.Zip != "" {
		lb.Address = &postalAddress{
			Type:     "PostalAddress",
			Street:   record.Street,
			Locality: record.City,
			Region:   record.State,
			Postal:   record.Zip,
		}
	}

	if record.Latitude != 0 || record.Longitude != 0 {
		lb.Geo = &geoCoordinates{
			Type:      "GeoCoordinates",
			Latitude:  record.Latitude,
			Longitude: record.Longitude,
		}
	}

	if reviews != nil && reviews.Count > 0 {
		lb.Rating = &aggregateRating{
			Type:        "AggregateRating",
			RatingValue: reviews.Rating,
			ReviewCount: reviews.Count,
		}
	}

	for _, svc := range services {
		lb.Offers = append(lb.Offers, offerCatalog{
			Type: "Offer",
			Offered: serviceEntry{
				Type:        "Service",
				Name:        svc.Name,
				Description: svc.Description,
			},
		})
	}

	for _, h := range record.Hours {
		if h.Open == "" || h.Close == "" {
			continue
		}
		lb.Hours = append(lb.Hours, openingHours{
			Type:   "OpeningHoursSpecification",
			Day:    h.Day,
			Opens:  h.Open,
			Closes: h.Close,
		})
	}

	return json.MarshalIndent(lb, "", "  ")
}
