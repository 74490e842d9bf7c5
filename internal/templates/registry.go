package templates

import "fmt"

// DefaultTemplateID is used when a site references a template that no longer
// exists in the registry.
const DefaultTemplateID = "classic-business"

// registry holds every template in declaration order. Matcher results
// preserve this order; there is no ranking among compatible templates.
var registry = []*Config{
	dreamGarden,
	classicBusiness,
	modernTech,
	boldServices,
	coastalCraft,
}

// suggestedDefaults maps an industry to its recommended template. This map is
// maintained by hand, independently of each template's compatibility filter.
var suggestedDefaults = map[string]string{
	"landscaping": "dream-garden",
	"lawn care":   "dream-garden",
	"gardening":   "dream-garden",
	"hvac":        "modern-tech",
	"plumbing":    "bold-services",
	"electrical":  "bold-services",
	"roofing":     "classic-business",
	"cleaning":    "classic-business",
	"painting":    "classic-business",
}

func init() {
	if err := validateRegistry(); err != nil {
		panic(err)
	}
}

// validateRegistry enforces registry consistency at load time: ids are
// unique, the default template exists, every section has at least one
// variant, and every suggested default is a member of the matcher's result
// for its industry. The suggested map is hand-maintained, so drift between
// it and the compatibility filters would otherwise go unnoticed until a
// customer hit it.
func validateRegistry() error {
	seen := make(map[string]bool, len(registry))
	for _, tpl := range registry {
		if tpl.ID == "" {
			return fmt.Errorf("template registry: template with empty id")
		}
		if seen[tpl.ID] {
			return fmt.Errorf("template registry: duplicate template id %q", tpl.ID)
		}
		seen[tpl.ID] = true

		for _, section := range tpl.SectionOrder {
			variants, ok := tpl.Sections[section]
			if !ok || len(variants) == 0 {
				return fmt.Errorf("template registry: template %q section %q has no variants", tpl.ID, section)
			}
		}
	}

	if !seen[DefaultTemplateID] {
		return fmt.Errorf("template registry: default template %q not registered", DefaultTemplateID)
	}

	for industry, id := range suggestedDefaults {
		if !seen[id] {
			return fmt.Errorf("template registry: suggested default %q for industry %q not registered", id, industry)
		}
		if !containsTemplate(ForIndustry(industry), id) {
			return fmt.Errorf("template registry: suggested default %q is not compatible with industry %q", id, industry)
		}
	}

	return nil
}

func containsTemplate(tpls []*Config, id string) bool {
	for _, tpl := range tpls {
		if tpl.ID == id {
			return true
		}
	}
	return false
}

// All returns every registered template in declaration order.
func All() []*Config {
	out := make([]*Config, len(registry))
	copy(out, registry)
	return out
}

// Get looks up a template by id.
func Get(id string) (*Config, bool) {
	for _, tpl := range registry {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return nil, false
}

// GetOrDefault resolves a template id, falling back to the default template
// when the id is empty or dangling.
func GetOrDefault(id string) *Config {
	if tpl, ok := Get(id); ok {
		return tpl
	}
	tpl, _ := Get(DefaultTemplateID)
	return tpl
}
