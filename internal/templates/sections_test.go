package templates

import (
	"testing"

	"github.com/jonathan/site-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceVariants = []SectionVariant{
	{Name: "services-list"},
	{Name: "services-grid", Requires: Requirement{MinServices: 3}},
	{Name: "services-detailed", Requires: Requirement{MinServices: 6}},
}

func TestSelectVariant_PrefersRichestQualifying(t *testing.T) {
	variant, ok := SelectVariant(serviceVariants, types.SectionAvailability{Services: 7})

	require.True(t, ok)
	assert.Equal(t, "services-detailed", variant.Name)
}

func TestSelectVariant_MiddleTier(t *testing.T) {
	variant, ok := SelectVariant(serviceVariants, types.SectionAvailability{Services: 4})

	require.True(t, ok)
	assert.Equal(t, "services-grid", variant.Name)
}

func TestSelectVariant_FallbackWhenNothingQualifies(t *testing.T) {
	variants := []SectionVariant{
		{Name: "testimonial-single", Requires: Requirement{MinTestimonials: 1}},
		{Name: "testimonial-carousel", Requires: Requirement{MinTestimonials: 3}},
	}

	variant, ok := SelectVariant(variants, types.SectionAvailability{})

	assert.False(t, ok, "no variant qualifies with zero testimonials")
	assert.Equal(t, "testimonial-single", variant.Name, "falls back to first declared variant")
}

func TestSelectVariant_EmptyVariantList(t *testing.T) {
	_, ok := SelectVariant(nil, types.SectionAvailability{Services: 10})
	assert.False(t, ok)
}

func TestSelectVariant_DescriptionRequirement(t *testing.T) {
	variants := []SectionVariant{
		{Name: "about-brief"},
		{Name: "about-story", Requires: Requirement{NeedsDescription: true, MinDescriptionLen: 120}},
	}

	short := types.SectionAvailability{HasDescription: true, DescriptionLen: 40}
	variant, ok := SelectVariant(variants, short)
	require.True(t, ok)
	assert.Equal(t, "about-brief", variant.Name)

	long := types.SectionAvailability{HasDescription: true, DescriptionLen: 300}
	variant, ok = SelectVariant(variants, long)
	require.True(t, ok)
	assert.Equal(t, "about-story", variant.Name)
}

func TestSelectSections_ResolvesEverySection(t *testing.T) {
	tpl, ok := Get("classic-business")
	require.True(t, ok)

	avail := types.SectionAvailability{
		Services:       4,
		Images:         2,
		HasDescription: true,
		DescriptionLen: 200,
	}

	selected, satisfied := SelectSections(tpl, avail)

	assert.Len(t, selected, len(tpl.SectionOrder))
	assert.Equal(t, "services-grid", selected["services"].Name)
	assert.Equal(t, "about-story", selected["about"].Name)
	assert.False(t, satisfied["testimonials"], "zero testimonials means fallback")
	assert.Equal(t, "testimonial-single", selected["testimonials"].Name)
}
