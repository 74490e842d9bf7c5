package directory

import (
	"strings"
	"time"

	"github.com/jonathan/site-builder/internal/types"
)

// normalizeGBP maps a raw location payload onto GbpFacts.
func normalizeGBP(loc *gbpLocation, reviews *gbpReviewSummary, photoURLs []string) *types.GbpFacts {
	facts := &types.GbpFacts{
		BusinessName:    loc.Title,
		Description:     loc.Profile.Description,
		PrimaryCategory: loc.Categories.PrimaryCategory.DisplayName,
		PhotoURLs:       photoURLs,
	}

	if facts.PrimaryCategory != "" {
		facts.Categories = append(facts.Categories, facts.PrimaryCategory)
	}
	for _, cat := range loc.Categories.AdditionalCategories {
		if cat.DisplayName != "" {
			facts.Categories = append(facts.Categories, cat.DisplayName)
		}
	}

	if len(loc.Attributes) > 0 {
		facts.Attributes = make(map[string]string, len(loc.Attributes))
		for _, attr := range loc.Attributes {
			facts.Attributes[attr.Name] = "true"
		}
	}

	if reviews != nil && reviews.TotalReviewCount > 0 {
		facts.Reviews = &types.ReviewSummary{
			Rating: reviews.AverageRating,
			Count:  reviews.TotalReviewCount,
		}
	}

	for _, period := range loc.RegularHours.Periods {
		facts.Hours = append(facts.Hours, types.DayHours{
			Day:   strings.ToLower(period.OpenDay),
			Open:  period.OpenTime,
			Close: period.CloseTime,
		})
	}

	for _, item := range loc.ServiceItems {
		if label := item.FreeFormServiceItem.Label.DisplayName; label != "" {
			facts.Services = append(facts.Services, label)
		} else if id := item.StructuredServiceItem.ServiceTypeID; id != "" {
			facts.Services = append(facts.Services, humanizeServiceType(id))
		}
	}

	return facts
}

// normalizePlaces maps a raw place payload onto PlacesFacts.
func normalizePlaces(details *placeDetails) *types.PlacesFacts {
	facts := &types.PlacesFacts{
		Name:       details.DisplayName.Text,
		Types:      details.Types,
		Website:    details.WebsiteURI,
		PriceLevel: priceLevelValue(details.PriceLevel),
	}

	for _, photo := range details.Photos {
		if photo.Name != "" {
			facts.PhotoRefs = append(facts.PhotoRefs, photo.Name)
		}
	}

	if details.UserRatingCount > 0 {
		facts.Reviews = &types.ReviewSummary{
			Rating: details.Rating,
			Count:  details.UserRatingCount,
		}
	}

	return facts
}

// buildRecord assembles the normalized BusinessRecord, preferring GBP fields
// and filling gaps from Places. Exactly one of the two identifiers marks the
// source of truth depending on which flow fetched the record.
func buildRecord(locationID string, loc *gbpLocation, placeID string, place *placeDetails, facts types.Sources) *types.BusinessRecord {
	rec := &types.BusinessRecord{
		GBPLocation: locationID,
		PlaceID:     placeID,
		FetchedAt:   time.Now().UTC(),
	}

	if loc != nil {
		rec.Name = loc.Title
		rec.Phone = loc.PhoneNumbers.PrimaryPhone
		rec.Website = loc.WebsiteURI
		rec.Street = strings.Join(loc.StorefrontAddress.AddressLines, ", ")
		rec.City = loc.StorefrontAddress.Locality
		rec.State = loc.StorefrontAddress.AdministrativeArea
		rec.Zip = loc.StorefrontAddress.PostalCode
		rec.Latitude = loc.LatLng.Latitude
		rec.Longitude = loc.LatLng.Longitude
		rec.Industry = industryFromCategory(loc.Categories.PrimaryCategory.DisplayName)
	}

	if place != nil {
		if rec.Name == "" {
			rec.Name = place.DisplayName.Text
		}
		if rec.Phone == "" {
			rec.Phone = place.NationalPhone
		}
		if rec.Website == "" {
			rec.Website = place.WebsiteURI
		}
		if rec.Latitude == 0 && rec.Longitude == 0 {
			rec.Latitude = place.Location.Latitude
			rec.Longitude = place.Location.Longitude
		}
		if rec.City == "" {
			fillAddressFromComponents(rec, place)
		}
		if rec.Industry == "" {
			rec.Industry = industryFromPlaceTypes(place.Types)
		}
	}

	if facts.GBP != nil {
		rec.Hours = facts.GBP.Hours
		rec.PhotoURLs = facts.GBP.PhotoURLs
	}
	return rec
}

func fillAddressFromComponents(rec *types.BusinessRecord, place *placeDetails) {
	for _, comp := range place.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				rec.City = comp.LongText
			case "administrative_area_level_1":
				rec.State = comp.ShortText
			case "postal_code":
				rec.Zip = comp.LongText
			case "route":
				if rec.Street == "" {
					rec.Street = comp.LongText
				}
			}
		}
	}
}

// industryFromCategory maps a GBP display category onto the industry labels
// the template registry understands.
func industryFromCategory(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "landscap"):
		return "landscaping"
	case strings.Contains(c, "lawn"):
		return "lawn care"
	case strings.Contains(c, "garden"):
		return "gardening"
	case strings.Contains(c, "plumb"):
		return "plumbing"
	case strings.Contains(c, "hvac"), strings.Contains(c, "heating"), strings.Contains(c, "air conditioning"):
		return "hvac"
	case strings.Contains(c, "electric"):
		return "electrical"
	case strings.Contains(c, "roof"):
		return "roofing"
	case strings.Contains(c, "clean"), strings.Contains(c, "maid"), strings.Contains(c, "janitorial"):
		return "cleaning"
	case strings.Contains(c, "paint"):
		return "painting"
	case strings.Contains(c, "tree"):
		return "tree service"
	case strings.Contains(c, "contractor"):
		return "general contractor"
	default:
		return c
	}
}

// industryFromPlaceTypes maps Places API type tags the same way, falling
// back to the first type verbatim when none maps onto a known industry.
func industryFromPlaceTypes(placeTypes []string) string {
	for _, t := range placeTypes {
		candidate := industryFromCategory(strings.ReplaceAll(t, "_", " "))
		if knownIndustry(candidate) {
			return candidate
		}
	}
	if len(placeTypes) > 0 {
		return strings.ReplaceAll(placeTypes[0], "_", " ")
	}
	return ""
}

func knownIndustry(industry string) bool {
	switch industry {
	case "landscaping", "lawn care", "gardening", "plumbing", "hvac",
		"electrical", "roofing", "cleaning", "painting", "tree service",
		"general contractor":
		return true
	}
	return false
}

// humanizeServiceType turns a structured service id like
// "job_type_id:install_faucet" into display text.
func humanizeServiceType(id string) string {
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		id = id[idx+1:]
	}
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
