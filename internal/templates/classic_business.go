package templates

// classicBusiness is a conservative layout that works for most home-service
// trades. Broad include list rather than universal so niche industries fall
// through to more specific templates.
var classicBusiness = &Config{
	ID:   "classic-business",
	Name: "Classic Business",
	Compatibility: Compatibility{
		Industries: IndustryFilter{
			Include: []string{
				"landscaping", "plumbing", "hvac", "electrical",
				"roofing", "cleaning", "painting", "general contractor",
			},
		},
		PositiveKeywords: []string{"trusted", "local", "family owned", "licensed"},
		BusinessTypes:    []string{"residential", "commercial"},
	},
	Requirements: Requirement{},
	Colors: Palette{
		Primary:   "#1d3557",
		Secondary: "#457b9d",
		Accent:    "#e63946",
	},
	SectionOrder: []string{"hero", "about", "services", "testimonials", "contact"},
	Sections: map[string][]SectionVariant{
		"hero": {
			{Name: "hero-centered", Characteristics: "text-only"},
			{Name: "hero-split", Characteristics: "image-beside-text", Requires: Requirement{MinImages: 1}},
		},
		"about": {
			{Name: "about-brief", Characteristics: "short"},
			{Name: "about-story", Characteristics: "long-form", Requires: Requirement{NeedsDescription: true, MinDescriptionLen: 120}},
		},
		"services": {
			{Name: "services-list", Characteristics: "compact"},
			{Name: "services-grid", Characteristics: "cards", Requires: Requirement{MinServices: 3}},
			{Name: "services-detailed", Characteristics: "expanded", Requires: Requirement{MinServices: 6}},
		},
		"testimonials": {
			{Name: "testimonial-single", Characteristics: "quote", Requires: Requirement{MinTestimonials: 1}},
			{Name: "testimonial-grid", Characteristics: "wall", Requires: Requirement{MinTestimonials: 4}},
		},
		"contact": {
			{Name: "contact-simple", Characteristics: "form"},
			{Name: "contact-map", Characteristics: "form-with-map", Requires: Requirement{MinImages: 1}},
		},
	},
}
