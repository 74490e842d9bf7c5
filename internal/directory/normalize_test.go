package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/types"
)

func TestNormalizeGBP(t *testing.T) {
	loc := &gbpLocation{Title: "Ace Plumbing"}
	loc.Profile.Description = "24/7 emergency plumber"
	loc.Categories.PrimaryCategory.DisplayName = "Plumber"
	loc.RegularHours.Periods = []gbpHoursPeriod{
		{OpenDay: "MONDAY", OpenTime: "08:00", CloseDay: "MONDAY", CloseTime: "17:00"},
	}

	facts := normalizeGBP(loc, &gbpReviewSummary{AverageRating: 4.8, TotalReviewCount: 120}, []string{"p1", "p2"})

	assert.Equal(t, "Ace Plumbing", facts.BusinessName)
	assert.Equal(t, "Plumber", facts.PrimaryCategory)
	assert.Equal(t, []string{"p1", "p2"}, facts.PhotoURLs)
	require.NotNil(t, facts.Reviews)
	assert.Equal(t, 120, facts.Reviews.Count)
	require.Len(t, facts.Hours, 1)
	assert.Equal(t, "monday", facts.Hours[0].Day)
}

func TestNormalizeGBP_EmptyReviewsOmitted(t *testing.T) {
	facts := normalizeGBP(&gbpLocation{Title: "Quiet Co"}, &gbpReviewSummary{}, nil)
	assert.Nil(t, facts.Reviews)
}

func TestIndustryFromCategory(t *testing.T) {
	cases := map[string]string{
		"Plumber":                "plumbing",
		"Landscape Designer":     "landscaping",
		"HVAC Contractor":        "hvac",
		"Heating Contractor":     "hvac",
		"Electrician":            "electrical",
		"Roofing Contractor":     "roofing",
		"House Cleaning Service": "cleaning",
		"Tree Service":           "tree service",
		"General Contractor":     "general contractor",
		"Taxidermist":            "taxidermist", // unmapped falls through lowercased
	}

	for category, want := range cases {
		assert.Equal(t, want, industryFromCategory(category), "category %q", category)
	}
}

func TestIndustryFromPlaceTypes(t *testing.T) {
	assert.Equal(t, "roofing", industryFromPlaceTypes([]string{"point_of_interest", "roofing_contractor"}))
	assert.Equal(t, "bowling alley", industryFromPlaceTypes([]string{"bowling_alley"}))
	assert.Equal(t, "", industryFromPlaceTypes(nil))
}

func TestBuildRecord_GBPPreferred(t *testing.T) {
	loc := &gbpLocation{Title: "Ace Plumbing"}
	loc.PhoneNumbers.PrimaryPhone = "(555) 123-4567"
	loc.StorefrontAddress.Locality = "Springfield"
	loc.Categories.PrimaryCategory.DisplayName = "Plumber"

	place := &placeDetails{NationalPhone: "(555) 000-0000"}
	place.DisplayName.Text = "Ace Plumbing Inc"

	rec := buildRecord("loc-1", loc, "place-1", place, types.Sources{})

	assert.Equal(t, "Ace Plumbing", rec.Name, "GBP name wins")
	assert.Equal(t, "(555) 123-4567", rec.Phone, "GBP phone wins")
	assert.Equal(t, "plumbing", rec.Industry)
	assert.Equal(t, "loc-1", rec.GBPLocation)
	assert.Equal(t, "place-1", rec.PlaceID)
	assert.False(t, rec.FetchedAt.IsZero())
}

func TestBuildRecord_PlacesFillsGaps(t *testing.T) {
	place := &placeDetails{NationalPhone: "(555) 000-0000", Types: []string{"electrician"}}
	place.DisplayName.Text = "Volt Electric"
	place.AddressComponents = []addressComponent{
		{LongText: "Portland", Types: []string{"locality"}},
		{LongText: "Oregon", ShortText: "OR", Types: []string{"administrative_area_level_1"}},
		{LongText: "97205", Types: []string{"postal_code"}},
	}

	rec := buildRecord("", nil, "place-2", place, types.Sources{})

	assert.Equal(t, "Volt Electric", rec.Name)
	assert.Equal(t, "Portland", rec.City)
	assert.Equal(t, "OR", rec.State)
	assert.Equal(t, "97205", rec.Zip)
	assert.Equal(t, "electrical", rec.Industry)
}

func TestHumanizeServiceType(t *testing.T) {
	assert.Equal(t, "Install Faucet", humanizeServiceType("job_type_id:install_faucet"))
	assert.Equal(t, "Drain Cleaning", humanizeServiceType("drain_cleaning"))
}
