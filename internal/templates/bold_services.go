package templates

// boldServices is a conversion-focused layout for emergency-call trades.
var boldServices = &Config{
	ID:   "bold-services",
	Name: "Bold Services",
	Compatibility: Compatibility{
		Industries: IndustryFilter{
			Include: []string{"plumbing", "hvac", "electrical", "locksmith", "garage door"},
		},
		PositiveKeywords: []string{"emergency", "24/7", "same day", "fast"},
		BusinessTypes:    []string{"residential"},
	},
	Requirements: Requirement{MinServices: 1},
	Colors: Palette{
		Primary:   "#bc4b00",
		Secondary: "#ffb703",
		Accent:    "#023047",
	},
	SectionOrder: []string{"hero", "services", "trust", "contact"},
	Sections: map[string][]SectionVariant{
		"hero": {
			{Name: "hero-call-now", Characteristics: "phone-led"},
			{Name: "hero-emergency", Characteristics: "urgency", Requires: Requirement{NeedsDescription: true}},
		},
		"services": {
			{Name: "services-list", Characteristics: "compact"},
			{Name: "services-priced", Characteristics: "price-anchored", Requires: Requirement{MinServices: 3}},
		},
		"trust": {
			{Name: "trust-badges", Characteristics: "credentials"},
			{Name: "trust-reviews", Characteristics: "review-led", Requires: Requirement{MinTestimonials: 2}},
		},
		"contact": {
			{Name: "contact-simple", Characteristics: "form"},
		},
	},
}
