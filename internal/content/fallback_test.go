package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/site-builder/internal/types"
)

func TestFallbackSection_Substitution(t *testing.T) {
	record := types.BusinessRecord{Name: "Ace Plumbing", Industry: "plumbing", City: "Springfield"}

	sc := FallbackSection("hero", "hero-basic", record)

	assert.Equal(t, "hero", sc.Section)
	assert.Equal(t, "hero-basic", sc.Variant)
	assert.True(t, sc.Fallback)
	assert.Equal(t, "Ace Plumbing", sc.Headline)
	assert.Equal(t, "Quality plumbing services in Springfield", sc.Subhead)
}

func TestFallbackSection_EmptyRecord(t *testing.T) {
	sc := FallbackSection("about", "about-basic", types.BusinessRecord{})

	assert.Contains(t, sc.Body, "our team")
	assert.Contains(t, sc.Body, "professional")
	assert.NotContains(t, sc.Body, "{name}")
	assert.NotContains(t, sc.Body, "{industry}")
	assert.NotContains(t, sc.Body, "{city}")
}

func TestFallbackSection_UnknownSection(t *testing.T) {
	sc := FallbackSection("faq", "faq-basic", types.BusinessRecord{})

	assert.True(t, sc.Fallback)
	assert.Equal(t, "Faq", sc.Headline)
}
