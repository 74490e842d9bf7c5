package templates

// coastalCraft is a relaxed, universally compatible layout with generous
// whitespace. Last in the registry so more specific templates surface first.
var coastalCraft = &Config{
	ID:   "coastal-craft",
	Name: "Coastal Craft",
	Compatibility: Compatibility{
		Industries:       IndustryFilter{},
		PositiveKeywords: []string{"custom", "craftsmanship", "quality"},
		BusinessTypes:    []string{"residential"},
	},
	Requirements: Requirement{},
	Colors: Palette{
		Primary:   "#264653",
		Secondary: "#2a9d8f",
		Accent:    "#e9c46a",
	},
	SectionOrder: []string{"hero", "about", "services", "contact"},
	Sections: map[string][]SectionVariant{
		"hero": {
			{Name: "hero-centered", Characteristics: "text-only"},
		},
		"about": {
			{Name: "about-brief", Characteristics: "short"},
			{Name: "about-story", Characteristics: "long-form", Requires: Requirement{NeedsDescription: true, MinDescriptionLen: 120}},
		},
		"services": {
			{Name: "services-list", Characteristics: "compact"},
			{Name: "services-grid", Characteristics: "cards", Requires: Requirement{MinServices: 3}},
		},
		"contact": {
			{Name: "contact-simple", Characteristics: "form"},
		},
	},
}
