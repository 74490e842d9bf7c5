package types

// SectionContent is a generated content block for one template section.
type SectionContent struct {
	Section  string `json:"section"`
	Variant  string `json:"variant"`
	Headline string `json:"headline"`
	Subhead  string `json:"subhead,omitempty"`
	Body     string `json:"body,omitempty"`
	CTALabel string `json:"cta_label,omitempty"`
	Fallback bool   `json:"fallback,omitempty"` // true when static copy was used
}

// SiteContent is the full set of generated copy for a site, keyed by section
// name in template declaration order.
type SiteContent struct {
	Sections []SectionContent `json:"sections"`
}

// SectionAvailability counts the content actually available for a site. The
// section variant checker compares these counts against variant requirements.
type SectionAvailability struct {
	Services       int  `json:"services"`
	Testimonials   int  `json:"testimonials"`
	Images         int  `json:"images"`
	HasDescription bool `json:"has_description"`
	DescriptionLen int  `json:"description_len"`
}
