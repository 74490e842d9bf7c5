package templates

// dreamGarden is an image-forward template for outdoor and landscaping trades.
var dreamGarden = &Config{
	ID:   "dream-garden",
	Name: "Dream Garden",
	Compatibility: Compatibility{
		Industries: IndustryFilter{
			Include: []string{"landscaping", "lawn care", "gardening", "tree service"},
		},
		PositiveKeywords: []string{"garden", "lawn", "outdoor", "design", "maintenance"},
		NegativeKeywords: []string{"emergency", "24/7"},
		BusinessTypes:    []string{"residential", "commercial"},
	},
	Requirements: Requirement{MinImages: 3},
	Colors: Palette{
		Primary:   "#2d6a4f",
		Secondary: "#95d5b2",
		Accent:    "#d4a373",
	},
	SectionOrder: []string{"hero", "services", "gallery", "testimonials", "contact"},
	Sections: map[string][]SectionVariant{
		"hero": {
			{Name: "hero-centered", Characteristics: "text-only"},
			{Name: "hero-full-bleed", Characteristics: "image-led", Requires: Requirement{MinImages: 1}},
		},
		"services": {
			{Name: "services-list", Characteristics: "compact"},
			{Name: "services-cards", Characteristics: "visual", Requires: Requirement{MinServices: 3, MinImages: 3}},
		},
		"gallery": {
			{Name: "gallery-strip", Characteristics: "compact", Requires: Requirement{MinImages: 3}},
			{Name: "gallery-masonry", Characteristics: "dense", Requires: Requirement{MinImages: 8}},
		},
		"testimonials": {
			{Name: "testimonial-single", Characteristics: "quote", Requires: Requirement{MinTestimonials: 1}},
			{Name: "testimonial-carousel", Characteristics: "rotating", Requires: Requirement{MinTestimonials: 3}},
		},
		"contact": {
			{Name: "contact-simple", Characteristics: "form"},
		},
	},
}
