package templates

import "strings"

// ForIndustry returns every template compatible with the given industry, in
// registry declaration order. Matching is case-insensitive. The exclude list
// is checked first and always wins; an empty include list means the template
// accepts any non-excluded industry. Keyword lists are not consulted.
func ForIndustry(industry string) []*Config {
	needle := strings.ToLower(strings.TrimSpace(industry))

	var matched []*Config
	for _, tpl := range registry {
		if matchesIndustry(tpl, needle) {
			matched = append(matched, tpl)
		}
	}
	return matched
}

func matchesIndustry(tpl *Config, industry string) bool {
	filter := tpl.Compatibility.Industries

	for _, excluded := range filter.Exclude {
		if strings.EqualFold(excluded, industry) {
			return false
		}
	}

	if len(filter.Include) == 0 {
		return true
	}
	for _, included := range filter.Include {
		if strings.EqualFold(included, industry) {
			return true
		}
	}
	return false
}

// Suggested returns the recommended template id for an industry from the
// static defaults map. The lookup is independent of ForIndustry; registry
// validation asserts at load time that the two agree. Returns false when the
// industry has no suggested default.
func Suggested(industry string) (string, bool) {
	id, ok := suggestedDefaults[strings.ToLower(strings.TrimSpace(industry))]
	return id, ok
}
