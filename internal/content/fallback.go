package content

import (
	"fmt"
	"strings"

	"github.com/jonathan/site-builder/internal/types"
)

// fallbackCopy is the static copy used when generation fails or a section's
// variant requirements are unmet. Placeholders {name}, {industry} and {city}
// are substituted from the business record.
var fallbackCopy = map[string]types.SectionContent{
	"hero": {
		Headline: "{name}",
		Subhead:  "Quality {industry} services in {city}",
		CTALabel: "Get a Free Quote",
	},
	"about": {
		Headline: "About {name}",
		Body:     "{name} is a local {industry} business proudly serving {city} and the surrounding area.",
	},
	"services": {
		Headline: "Our Services",
		Subhead:  "Professional {industry} services you can count on",
		CTALabel: "Request Service",
	},
	"testimonials": {
		Headline: "What Our Customers Say",
		Subhead:  "Trusted by homeowners and businesses across {city}",
	},
	"gallery": {
		Headline: "Our Work",
		Subhead:  "A look at recent projects from {name}",
	},
	"trust": {
		Headline: "Why Choose {name}",
		Body:     "Licensed, local, and committed to doing the job right the first time.",
	},
	"process": {
		Headline: "How It Works",
		Body:     "Reach out, get a clear quote, and let our team take it from there.",
	},
	"contact": {
		Headline: "Get In Touch",
		Subhead:  "Contact {name} today",
		CTALabel: "Contact Us",
	},
}

// FallbackSection returns static placeholder copy for a section. It never
// fails; unknown sections get a generic block built from the section name.
func FallbackSection(section, variant string, record types.BusinessRecord) types.SectionContent {
	sc, ok := fallbackCopy[section]
	if !ok {
		sc = types.SectionContent{Headline: titleCase(section)}
	}

	sc.Section = section
	sc.Variant = variant
	sc.Fallback = true
	sc.Headline = substitute(sc.Headline, record)
	sc.Subhead = substitute(sc.Subhead, record)
	sc.Body = substitute(sc.Body, record)
	sc.CTALabel = substitute(sc.CTALabel, record)
	return sc
}

func substitute(s string, record types.BusinessRecord) string {
	name := record.Name
	if name == "" {
		name = "our team"
	}
	industry := record.Industry
	if industry == "" {
		industry = "professional"
	}
	city := record.City
	if city == "" {
		city = "your area"
	}

	r := strings.NewReplacer("{name}", name, "{industry}", industry, "{city}", city)
	return r.Replace(s)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return fmt.Sprintf("%s%s", strings.ToUpper(s[:1]), s[1:])
}
