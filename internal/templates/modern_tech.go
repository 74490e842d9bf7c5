package templates

// modernTech is a sharp, angular layout aimed at technical trades. Universal
// except for the green industries, which it actively looks wrong for.
var modernTech = &Config{
	ID:   "modern-tech",
	Name: "Modern Tech",
	Compatibility: Compatibility{
		Industries: IndustryFilter{
			Exclude: []string{"landscaping", "gardening", "lawn care"},
		},
		PositiveKeywords: []string{"certified", "installation", "repair", "efficiency"},
		NegativeKeywords: []string{"rustic", "handcrafted"},
		BusinessTypes:    []string{"residential", "commercial", "industrial"},
	},
	Requirements: Requirement{},
	Colors: Palette{
		Primary:   "#0b132b",
		Secondary: "#3a506b",
		Accent:    "#5bc0be",
	},
	SectionOrder: []string{"hero", "services", "process", "testimonials", "contact"},
	Sections: map[string][]SectionVariant{
		"hero": {
			{Name: "hero-centered", Characteristics: "text-only"},
			{Name: "hero-stats", Characteristics: "metric-led", Requires: Requirement{NeedsDescription: true}},
		},
		"services": {
			{Name: "services-list", Characteristics: "compact"},
			{Name: "services-tabs", Characteristics: "interactive", Requires: Requirement{MinServices: 4}},
		},
		"process": {
			{Name: "process-steps", Characteristics: "numbered"},
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
