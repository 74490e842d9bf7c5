// Package content turns scored business facts into website copy. Each
// template section gets a grounded LLM prompt; any failure along the way
// (timeout, API error, malformed or invalid JSON) degrades to static fallback
// copy so a site can always be assembled.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/site-builder/internal/llm"
	"github.com/jonathan/site-builder/internal/prompts"
	"github.com/jonathan/site-builder/internal/schemas"
	"github.com/jonathan/site-builder/internal/templates"
	"github.com/jonathan/site-builder/internal/types"
)

// defaultCallTimeout bounds a single LLM call. Generation is a soft
// dependency; a slow call becomes a fallback section, not a stuck pipeline.
const defaultCallTimeout = 30 * time.Second

// Generator produces site copy for a matched template.
type Generator struct {
	LLM     llm.Client
	Timeout time.Duration // per LLM call; defaultCallTimeout when zero
}

// NewGenerator creates a Generator with the default per-call timeout.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{LLM: client}
}

func (g *Generator) callTimeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return defaultCallTimeout
}

// modelTierFor maps a content tier to an LLM model tier. Sparse data gets the
// cheap model; there is not enough grounding material to justify a bigger one.
func modelTierFor(tier types.ContentTier) llm.ModelTier {
	switch tier {
	case types.TierRich:
		return llm.TierAdvanced
	case types.TierPartial:
		return llm.TierStandard
	default:
		return llm.TierLite
	}
}

// GenerateSite produces copy for every section of a template in rendering
// order. Sections whose variant requirements are unmet, and sections whose
// generation fails for any reason, come back as static fallback copy with
// Fallback set. The returned error is non-nil only when the prompt templates
// themselves cannot be loaded.
func (g *Generator) GenerateSite(ctx context.Context, record types.BusinessRecord, sources types.Sources, score types.DataScore, tpl *templates.Config) (types.SiteContent, error) {
	promptTpl, err := prompts.Get("content.json", "section_copy")
	if err != nil {
		return types.SiteContent{}, fmt.Errorf("failed to load section prompt: %w", err)
	}

	avail := Availability(record, sources)
	facts := FactsBlock(record, sources)
	modelTier := modelTierFor(score.Tier)

	var out types.SiteContent
	for _, section := range tpl.SectionOrder {
		variant, ok := templates.SelectVariant(tpl.Sections[section], avail)
		if !ok {
			out.Sections = append(out.Sections, FallbackSection(section, variant.Name, record))
			continue
		}

		sc, err := g.generateSection(ctx, promptTpl, facts, section, variant, modelTier)
		if err != nil {
			log.Printf("content: %s/%s generation failed, using fallback: %v", section, variant.Name, err)
			sc = FallbackSection(section, variant.Name, record)
		}
		out.Sections = append(out.Sections, sc)
	}
	return out, nil
}

// generateSection runs one LLM call for a section variant and validates the
// response before trusting it.
func (g *Generator) generateSection(ctx context.Context, promptTpl, facts, section string, variant templates.SectionVariant, tier llm.ModelTier) (types.SectionContent, error) {
	prompt := prompts.Format(promptTpl, map[string]string{
		"Facts":           facts,
		"Section":         section,
		"Variant":         variant.Name,
		"Characteristics": variant.Characteristics,
		"Tone":            "professional and approachable",
	})

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout())
	defer cancel()

	raw, err := g.LLM.GenerateJSON(callCtx, prompt, tier)
	if err != nil {
		return types.SectionContent{}, fmt.Errorf("llm call failed: %w", err)
	}

	if err := schemas.Validate(schemas.SectionContentSchema, []byte(raw)); err != nil {
		return types.SectionContent{}, fmt.Errorf("generated copy rejected: %w", err)
	}

	var payload struct {
		Headline string `json:"headline"`
		Subhead  string `json:"subhead"`
		Body     string `json:"body"`
		CTALabel string `json:"cta_label"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return types.SectionContent{}, fmt.Errorf("failed to parse generated copy: %w", err)
	}

	return types.SectionContent{
		Section:  section,
		Variant:  variant.Name,
		Headline: payload.Headline,
		Subhead:  payload.Subhead,
		Body:     payload.Body,
		CTALabel: payload.CTALabel,
	}, nil
}

// DescribeService writes a one-sentence description for a named service.
// Cheap call, cheap model.
func (g *Generator) DescribeService(ctx context.Context, record types.BusinessRecord, service string) (string, error) {
	promptTpl, err := prompts.Get("content.json", "service_description")
	if err != nil {
		return "", fmt.Errorf("failed to load service prompt: %w", err)
	}

	prompt := prompts.Format(promptTpl, map[string]string{
		"Industry":     record.Industry,
		"BusinessName": record.Name,
		"Service":      service,
	})

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout())
	defer cancel()

	text, err := g.LLM.GenerateContent(callCtx, prompt, llm.TierLite)
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Availability counts the content a site actually has, for section variant
// selection. Photo counts prefer the normalized record; testimonial presence
// is approximated by the review count since individual reviews are not stored.
func Availability(record types.BusinessRecord, sources types.Sources) types.SectionAvailability {
	var avail types.SectionAvailability

	avail.Images = len(record.PhotoURLs)
	if avail.Images == 0 && sources.Places != nil {
		avail.Images = len(sources.Places.PhotoRefs)
	}

	if sources.GBP != nil {
		avail.Services = len(sources.GBP.Services)
		if sources.GBP.Description != "" {
			avail.HasDescription = true
			avail.DescriptionLen = len(sources.GBP.Description)
		}
		if sources.GBP.Reviews != nil {
			avail.Testimonials = sources.GBP.Reviews.Count
		}
	}
	if avail.Testimonials == 0 && sources.Places != nil && sources.Places.Reviews != nil {
		avail.Testimonials = sources.Places.Reviews.Count
	}
	return avail
}

// FactsBlock renders the known business facts as prompt grounding material.
// Only populated fields appear; the prompt instructs the model to claim
// nothing beyond this block.
func FactsBlock(record types.BusinessRecord, sources types.Sources) string {
	var b strings.Builder

	writeFact := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	writeFact("Name", record.Name)
	writeFact("Industry", record.Industry)
	writeFact("City", record.City)
	writeFact("State", record.State)
	writeFact("Phone", record.Phone)
	writeFact("Website", record.Website)

	if sources.GBP != nil {
		writeFact("Description", sources.GBP.Description)
		if len(sources.GBP.Services) > 0 {
			writeFact("Services", strings.Join(sources.GBP.Services, ", "))
		}
		if sources.GBP.Reviews != nil && sources.GBP.Reviews.Count > 0 {
			writeFact("Reviews", fmt.Sprintf("%.1f average over %d reviews", sources.GBP.Reviews.Rating, sources.GBP.Reviews.Count))
		}
		if len(sources.GBP.Attributes) > 0 {
			keys := make([]string, 0, len(sources.GBP.Attributes))
			for k := range sources.GBP.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s=%s", k, sources.GBP.Attributes[k]))
			}
			writeFact("Attributes", strings.Join(pairs, ", "))
		}
	} else if sources.Places != nil && sources.Places.Reviews != nil && sources.Places.Reviews.Count > 0 {
		writeFact("Reviews", fmt.Sprintf("%.1f average over %d reviews", sources.Places.Reviews.Rating, sources.Places.Reviews.Count))
	}

	if sources.Manual != nil {
		m := sources.Manual
		if m.YearsInBusiness > 0 {
			writeFact("Years in business", fmt.Sprintf("%d", m.YearsInBusiness))
		}
		if len(m.Certifications) > 0 {
			writeFact("Certifications", strings.Join(m.Certifications, ", "))
		}
		if len(m.Awards) > 0 {
			writeFact("Awards", strings.Join(m.Awards, ", "))
		}
		if len(m.Specializations) > 0 {
			writeFact("Specializations", strings.Join(m.Specializations, ", "))
		}
		if m.TeamSize > 0 {
			writeFact("Team size", fmt.Sprintf("%d", m.TeamSize))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
