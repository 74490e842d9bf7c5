// Package scoring computes a data completeness score over a business's
// available facts. The score decides how much the onboarding flow must ask
// the owner versus how much the content generator can infer.
package scoring

import (
	"github.com/jonathan/site-builder/internal/types"
)

// Score breakdown category names.
const (
	CategoryIdentity    = "identity"
	CategoryDescription = "description"
	CategoryPhotos      = "photos"
	CategoryReviews     = "reviews"
	CategoryCategories  = "categories"
	CategoryHours       = "hours"
	CategoryAttributes  = "attributes"
	CategoryServices    = "services"
	CategoryManual      = "manual"
)

// Point values per populated field. Fixed so the same inputs always produce
// the same score.
const (
	pointsName            = 5
	pointsDescription     = 20
	pointsRichDescription = 5 // description length >= richDescriptionLen
	richDescriptionLen    = 80

	pointsAnyPhoto    = 5
	pointsThreePhotos = 10
	pointsEightPhotos = 5

	pointsAnyReviews    = 5
	pointsManyReviews   = 10 // count >= reviewCountGood
	pointsLotsOfReviews = 5  // count >= reviewCountGreat
	pointsHighRating    = 5  // rating >= highRating
	reviewCountGood     = 25
	reviewCountGreat    = 100
	highRating          = 4.5

	pointsPrimaryCategory = 5
	pointsExtraCategories = 3

	pointsHours = 7

	pointsAnyAttributes  = 3
	pointsManyAttributes = 2 // >= 5 attributes
	pointsPriceLevel     = 2

	pointsAnyServices  = 5
	pointsManyServices = 5 // >= 3 services

	pointsYearsInBusiness = 5
	pointsCertifications  = 5
	pointsAwards          = 3
	pointsSpecializations = 4
	pointsTeamSize        = 3
)

// Calculate derives a DataScore from the available fact sources. It is pure,
// performs no I/O, and never fails: absent or malformed optional fields
// contribute zero points. Categories fed by both GBP and Places are scored
// once per source and the higher source score counts, so new data never
// lowers the total; values are never merged or averaged.
func Calculate(sources types.Sources) types.DataScore {
	breakdown := map[string]int{}

	breakdown[CategoryIdentity] = scoreIdentity(sources)
	breakdown[CategoryDescription] = scoreDescription(sources)
	breakdown[CategoryPhotos] = scorePhotos(sources)
	breakdown[CategoryReviews] = scoreReviews(sources)
	breakdown[CategoryCategories] = scoreCategories(sources)
	breakdown[CategoryHours] = scoreHours(sources)
	breakdown[CategoryAttributes] = scoreAttributes(sources)
	breakdown[CategoryServices] = scoreServices(sources)
	breakdown[CategoryManual] = scoreManual(sources.Manual)

	total := 0
	for _, pts := range breakdown {
		total += pts
	}
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return types.DataScore{
		Total:     total,
		Breakdown: breakdown,
		Tier:      types.TierForTotal(total),
	}
}

func scoreIdentity(s types.Sources) int {
	name := ""
	if s.GBP != nil {
		name = s.GBP.BusinessName
	}
	if name == "" && s.Places != nil {
		name = s.Places.Name
	}
	if name == "" {
		return 0
	}
	return pointsName
}

func scoreDescription(s types.Sources) int {
	if s.GBP == nil || s.GBP.Description == "" {
		return 0
	}
	pts := pointsDescription
	if len(s.GBP.Description) >= richDescriptionLen {
		pts += pointsRichDescription
	}
	return pts
}

func scorePhotos(s types.Sources) int {
	// Each source's photo set is scored on its own and the stronger one
	// counts, so a single GBP photo cannot displace a richer Places set.
	gbp, places := 0, 0
	if s.GBP != nil {
		gbp = photoPoints(len(s.GBP.PhotoURLs))
	}
	if s.Places != nil {
		places = photoPoints(len(s.Places.PhotoRefs))
	}
	return max(gbp, places)
}

func photoPoints(count int) int {
	pts := 0
	if count >= 1 {
		pts += pointsAnyPhoto
	}
	if count >= 3 {
		pts += pointsThreePhotos
	}
	if count >= 8 {
		pts += pointsEightPhotos
	}
	return pts
}

func scoreReviews(s types.Sources) int {
	gbp, places := 0, 0
	if s.GBP != nil {
		gbp = reviewPoints(s.GBP.Reviews)
	}
	if s.Places != nil {
		places = reviewPoints(s.Places.Reviews)
	}
	return max(gbp, places)
}

// reviewPoints scores one source's review summary. Count and rating are
// taken from the same summary, never mixed across sources.
func reviewPoints(reviews *types.ReviewSummary) int {
	if reviews == nil || reviews.Count <= 0 {
		return 0
	}

	pts := pointsAnyReviews
	if reviews.Count >= reviewCountGood {
		pts += pointsManyReviews
	}
	if reviews.Count >= reviewCountGreat {
		pts += pointsLotsOfReviews
	}
	if reviews.Rating >= highRating {
		pts += pointsHighRating
	}
	return pts
}

func scoreCategories(s types.Sources) int {
	gbp, places := 0, 0
	if s.GBP != nil {
		if s.GBP.PrimaryCategory != "" {
			gbp += pointsPrimaryCategory
		}
		if len(s.GBP.Categories) > 1 {
			gbp += pointsExtraCategories
		}
	}
	if s.Places != nil && len(s.Places.Types) > 0 {
		places += pointsPrimaryCategory
		if len(s.Places.Types) > 1 {
			places += pointsExtraCategories
		}
	}
	return max(gbp, places)
}

func scoreHours(s types.Sources) int {
	if s.GBP == nil || len(s.GBP.Hours) == 0 {
		return 0
	}
	return pointsHours
}

func scoreAttributes(s types.Sources) int {
	pts := 0
	if s.GBP != nil && len(s.GBP.Attributes) > 0 {
		pts += pointsAnyAttributes
		if len(s.GBP.Attributes) >= 5 {
			pts += pointsManyAttributes
		}
	}
	if s.Places != nil && s.Places.PriceLevel > 0 {
		pts += pointsPriceLevel
	}
	return pts
}

func scoreServices(s types.Sources) int {
	if s.GBP == nil || len(s.GBP.Services) == 0 {
		return 0
	}
	pts := pointsAnyServices
	if len(s.GBP.Services) >= 3 {
		pts += pointsManyServices
	}
	return pts
}

func scoreManual(m *types.ManualFacts) int {
	if m == nil {
		return 0
	}
	pts := 0
	if m.YearsInBusiness > 0 {
		pts += pointsYearsInBusiness
	}
	if len(m.Certifications) > 0 {
		pts += pointsCertifications
	}
	if len(m.Awards) > 0 {
		pts += pointsAwards
	}
	if len(m.Specializations) > 0 {
		pts += pointsSpecializations
	}
	if m.TeamSize > 0 {
		pts += pointsTeamSize
	}
	return pts
}
