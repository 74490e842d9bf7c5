// Package templates defines the static design template registry and the
// industry compatibility matcher. Templates are code-defined configuration,
// loaded once at process start and never mutated at runtime.
package templates

import "github.com/jonathan/site-builder/internal/types"

// IndustryFilter declares which industries a template accepts. An empty
// Include list means the template is universally compatible; Exclude always
// wins over Include.
type IndustryFilter struct {
	Include []string
	Exclude []string
}

// Compatibility describes which businesses a template is designed for.
// The keyword lists are descriptive metadata reserved for a future ranking
// step; the matcher does not consult them.
type Compatibility struct {
	Industries       IndustryFilter
	PositiveKeywords []string
	NegativeKeywords []string
	BusinessTypes    []string
}

// Requirement is the minimum content a template or section variant needs to
// render well.
type Requirement struct {
	MinServices       int
	MinTestimonials   int
	MinImages         int
	NeedsDescription  bool
	MinDescriptionLen int
}

// SectionVariant is one alternative rendering of a page section with its own
// minimum-data requirement. The lowest-requirement variant of a section must
// be declared first; it is the fallback when nothing qualifies.
type SectionVariant struct {
	Name            string
	Characteristics string
	Requires        Requirement
}

// Palette holds a template's default theme colors.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// Config is a static descriptor of a website design template.
type Config struct {
	ID            string
	Name          string
	Compatibility Compatibility
	Requirements  Requirement
	Colors        Palette
	// SectionOrder preserves the rendering order of sections.
	SectionOrder []string
	Sections     map[string][]SectionVariant
}

// Satisfied reports whether the availability counts meet this requirement.
func (r Requirement) Satisfied(avail types.SectionAvailability) bool {
	if avail.Services < r.MinServices {
		return false
	}
	if avail.Testimonials < r.MinTestimonials {
		return false
	}
	if avail.Images < r.MinImages {
		return false
	}
	if r.NeedsDescription && !avail.HasDescription {
		return false
	}
	if r.MinDescriptionLen > 0 && avail.DescriptionLen < r.MinDescriptionLen {
		return false
	}
	return true
}

// weight orders variants by how much data they demand. Used to pick the
// richest qualifying variant.
func (r Requirement) weight() int {
	w := r.MinServices + r.MinTestimonials + r.MinImages + r.MinDescriptionLen
	if r.NeedsDescription {
		w++
	}
	return w
}
