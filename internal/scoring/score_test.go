package scoring

import (
	"testing"

	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_NoSources(t *testing.T) {
	score := Calculate(types.Sources{})

	assert.Equal(t, 0, score.Total)
	assert.Equal(t, types.TierMinimal, score.Tier)
}

func TestCalculate_RichGBPProfile(t *testing.T) {
	score := Calculate(types.Sources{
		GBP: &types.GbpFacts{
			BusinessName: "Ace Plumbing",
			Description:  "24/7 emergency plumber",
			PhotoURLs:    []string{"u1", "u2", "u3", "u4"},
			Reviews:      &types.ReviewSummary{Rating: 4.8, Count: 120},
		},
	})

	assert.Greater(t, score.Total, 60)
	assert.Equal(t, types.TierRich, score.Tier)
	assert.Positive(t, score.Breakdown[CategoryDescription])
	assert.Positive(t, score.Breakdown[CategoryPhotos])
	assert.Positive(t, score.Breakdown[CategoryReviews])
}

func TestCalculate_Bounded(t *testing.T) {
	// Everything populated should clamp to 100, never exceed it.
	score := Calculate(types.Sources{
		GBP: &types.GbpFacts{
			BusinessName:    "Full House Electric",
			Description:     "Licensed residential and commercial electricians serving the metro area since 1998 with same-day service.",
			PrimaryCategory: "Electrician",
			Categories:      []string{"Electrician", "Lighting Contractor"},
			PhotoURLs:       []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"},
			Attributes:      map[string]string{"licensed": "true", "insured": "true", "emergency": "true", "family_owned": "true", "veteran_owned": "true"},
			Reviews:         &types.ReviewSummary{Rating: 4.9, Count: 340},
			Hours:           []types.DayHours{{Day: "monday", Open: "08:00", Close: "17:00"}},
			Services:        []string{"Panel upgrades", "Rewiring", "EV chargers"},
		},
		Places: &types.PlacesFacts{
			PriceLevel: 2,
			Reviews:    &types.ReviewSummary{Rating: 4.2, Count: 80},
		},
		Manual: &types.ManualFacts{
			YearsInBusiness: 25,
			Certifications:  []string{"Master Electrician"},
			Awards:          []string{"Best of the City 2023"},
			Specializations: []string{"EV charger installs"},
			TeamSize:        12,
		},
	})

	assert.Equal(t, 100, score.Total)
	assert.Equal(t, types.TierRich, score.Tier)
}

func TestCalculate_Monotonic_AddingFieldNeverDecreases(t *testing.T) {
	base := types.Sources{
		GBP: &types.GbpFacts{BusinessName: "Dusty Trails Landscaping"},
	}
	before := Calculate(base).Total

	withDescription := base
	gbp := *base.GBP
	gbp.Description = "Full service landscaping and lawn care"
	withDescription.GBP = &gbp

	after := Calculate(withDescription).Total
	assert.GreaterOrEqual(t, after, before)
}

func TestCalculate_ReviewsScoredPerSource(t *testing.T) {
	// GBP has a small review count, Places a large one. The richer source's
	// category score counts; count and rating are never mixed across sources.
	score := Calculate(types.Sources{
		GBP: &types.GbpFacts{
			BusinessName: "Bayview HVAC",
			Reviews:      &types.ReviewSummary{Rating: 4.0, Count: 3},
		},
		Places: &types.PlacesFacts{
			Reviews: &types.ReviewSummary{Rating: 4.9, Count: 500},
		},
	})

	want := pointsAnyReviews + pointsManyReviews + pointsLotsOfReviews + pointsHighRating
	assert.Equal(t, want, score.Breakdown[CategoryReviews])
}

func TestCalculate_Monotonic_AcrossSources(t *testing.T) {
	// A sparse GBP photo set must not displace a richer Places set.
	base := types.Sources{
		Places: &types.PlacesFacts{
			Name:      "Bayview HVAC",
			PhotoRefs: []string{"r1", "r2", "r3", "r4", "r5"},
		},
	}
	before := Calculate(base).Total

	withGBP := base
	withGBP.GBP = &types.GbpFacts{PhotoURLs: []string{"only-one"}}

	after := Calculate(withGBP).Total
	assert.GreaterOrEqual(t, after, before)
}

func TestCalculate_PlacesOnly(t *testing.T) {
	score := Calculate(types.Sources{
		Places: &types.PlacesFacts{
			Name:      "Harbor Roofing",
			Types:     []string{"roofing_contractor", "general_contractor"},
			PhotoRefs: []string{"r1", "r2", "r3"},
			Reviews:   &types.ReviewSummary{Rating: 4.6, Count: 40},
		},
	})

	assert.Positive(t, score.Breakdown[CategoryIdentity])
	assert.Positive(t, score.Breakdown[CategoryPhotos])
	assert.Positive(t, score.Breakdown[CategoryReviews])
	assert.Positive(t, score.Breakdown[CategoryCategories])
	assert.Zero(t, score.Breakdown[CategoryDescription], "Places has no description field")
}

func TestCalculate_ManualOnly(t *testing.T) {
	score := Calculate(types.Sources{
		Manual: &types.ManualFacts{
			YearsInBusiness: 10,
			Certifications:  []string{"NATE certified"},
		},
	})

	assert.Equal(t, pointsYearsInBusiness+pointsCertifications, score.Total)
	assert.Equal(t, types.TierMinimal, score.Tier)
}

func TestTierForTotal_Thresholds(t *testing.T) {
	cases := []struct {
		total int
		tier  types.ContentTier
	}{
		{0, types.TierMinimal},
		{30, types.TierMinimal},
		{31, types.TierPartial},
		{60, types.TierPartial},
		{61, types.TierRich},
		{100, types.TierRich},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.tier, types.TierForTotal(tc.total), "total=%d", tc.total)
	}
}
