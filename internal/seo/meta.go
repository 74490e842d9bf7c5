// Package seo generates and constrains search metadata for sites: meta
// title/description pairs and schema.org structured data.
package seo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/llm"
	"github.com/jonathan/site-builder/internal/prompts"
	"github.com/jonathan/site-builder/internal/schemas"
	"github.com/jonathan/site-builder/internal/types"
)

// Search engines truncate beyond these lengths, so we enforce them at the
// input layer rather than letting long values through to rendering.
const (
	MaxTitleLen       = 60
	MaxDescriptionLen = 160
)

const defaultCallTimeout = 20 * time.Second

// MetaTags is a validated title/description pair for a page head.
type MetaTags struct {
	Title       string `json:"meta_title"`
	Description string `json:"meta_description"`
}

// TruncateTitle trims a meta title to MaxTitleLen at a word boundary.
func TruncateTitle(s string) string {
	return truncateWords(s, MaxTitleLen)
}

// TruncateDescription trims a meta description to MaxDescriptionLen at a
// word boundary.
func TruncateDescription(s string) string {
	return truncateWords(s, MaxDescriptionLen)
}

// truncateWords cuts s to at most max bytes without splitting a word. When no
// word boundary exists inside the limit the cut is hard, but never inside a
// multibyte rune.
func truncateWords(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}

	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	cut := s[:max]
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '-'
	})
}

// Generator produces meta tags from business facts via the LLM, degrading to
// deterministic fallback tags on any failure.
type Generator struct {
	LLM     llm.Client
	Timeout time.Duration
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

// GenerateMetaTags asks the model for a title/description pair grounded in
// the business facts. Any failure yields the fallback tags; the result always
// respects the length limits.
func (g *Generator) GenerateMetaTags(ctx context.Context, record types.BusinessRecord, sources types.Sources) MetaTags {
	tags, err := g.generate(ctx, record, sources)
	if err != nil {
		log.Printf("seo: meta generation failed, using fallback: %v", err)
		tags = FallbackMetaTags(record)
	}

	tags.Title = TruncateTitle(tags.Title)
	tags.Description = TruncateDescription(tags.Description)
	return tags
}

func (g *Generator) generate(ctx context.Context, record types.BusinessRecord, sources types.Sources) (MetaTags, error) {
	promptTpl, err := prompts.Get("seo.json", "meta_tags")
	if err != nil {
		return MetaTags{}, fmt.Errorf("failed to load meta prompt: %w", err)
	}

	prompt := prompts.Format(promptTpl, map[string]string{
		"Facts": content.FactsBlock(record, sources),
	})

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout())
	defer cancel()

	raw, err := g.LLM.GenerateJSON(callCtx, prompt, llm.TierStandard)
	if err != nil {
		return MetaTags{}, fmt.Errorf("llm call failed: %w", err)
	}

	if err := schemas.Validate(schemas.MetaTagsSchema, []byte(raw)); err != nil {
		return MetaTags{}, fmt.Errorf("generated metadata rejected: %w", err)
	}

	var tags MetaTags
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return MetaTags{}, fmt.Errorf("failed to parse generated metadata: %w", err)
	}
	return tags, nil
}

// FallbackMetaTags builds deterministic tags from the record alone. Used when
// generation fails and for sites created before generation ran.
func FallbackMetaTags(record types.BusinessRecord) MetaTags {
	name := record.Name
	if name == "" {
		name = "Local Services"
	}

	title := name
	if record.City != "" {
		title = fmt.Sprintf("%s | %s", name, record.City)
	}

	industry := record.Industry
	if industry == "" {
		industry = "service"
	}
	desc := fmt.Sprintf("%s offers trusted %s services", name, industry)
	if record.City != "" {
		desc += " in " + record.City
	}
	desc += ". Contact us today for a free quote."

	return MetaTags{
		Title:       TruncateTitle(title),
		Description: TruncateDescription(desc),
	}
}
