package templates

import "github.com/jonathan/site-builder/internal/types"

// SelectVariant picks the section variant to render given the content
// actually available for a site. Among qualifying variants it prefers the one
// with the highest data requirement, on the theory that more complete data
// should render the more content-dense variant. When nothing qualifies it
// falls back to the first declared variant (the lowest-requirement one) and
// reports ok=false; the caller supplies placeholder content in that case.
func SelectVariant(variants []SectionVariant, avail types.SectionAvailability) (SectionVariant, bool) {
	if len(variants) == 0 {
		return SectionVariant{}, false
	}

	best := -1
	bestWeight := -1
	for i, v := range variants {
		if !v.Requires.Satisfied(avail) {
			continue
		}
		// Strictly greater: earlier declaration wins ties.
		if w := v.Requires.weight(); w > bestWeight {
			best = i
			bestWeight = w
		}
	}

	if best < 0 {
		return variants[0], false
	}
	return variants[best], true
}

// SelectSections resolves a variant for every section of a template in
// rendering order. The ok map records per section whether the variant's
// requirements were actually met or the fallback was used.
func SelectSections(tpl *Config, avail types.SectionAvailability) (map[string]SectionVariant, map[string]bool) {
	selected := make(map[string]SectionVariant, len(tpl.SectionOrder))
	satisfied := make(map[string]bool, len(tpl.SectionOrder))

	for _, section := range tpl.SectionOrder {
		variant, ok := SelectVariant(tpl.Sections[section], avail)
		selected[section] = variant
		satisfied[section] = ok
	}
	return selected, satisfied
}
