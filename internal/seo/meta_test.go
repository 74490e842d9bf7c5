package seo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/llm"
	"github.com/jonathan/site-builder/internal/types"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                       { return nil }

func TestTruncateTitle_ShortPassthrough(t *testing.T) {
	assert.Equal(t, "Ace Plumbing | Springfield", TruncateTitle("Ace Plumbing | Springfield"))
}

func TestTruncateTitle_WordBoundary(t *testing.T) {
	long := "Ace Plumbing and Heating Services of Greater Springfield Metro Area"

	got := TruncateTitle(long)

	assert.LessOrEqual(t, len(got), MaxTitleLen)
	assert.False(t, strings.HasSuffix(got, " "), "no trailing space")
	// Never cuts mid-word: the result must be a prefix of the input ending
	// exactly where a word ends.
	assert.True(t, strings.HasPrefix(long, got))
	assert.Equal(t, byte(' '), long[len(got)], "cut lands on a word boundary")
}

func TestTruncateDescription_NoBoundaryInsideLimit(t *testing.T) {
	long := strings.Repeat("x", 300)

	got := TruncateDescription(long)

	assert.Len(t, got, MaxDescriptionLen)
}

func TestTruncateTitle_HardCutKeepsRunesIntact(t *testing.T) {
	// One long multibyte word: no space inside the limit, so the cut is
	// hard and must land on a rune boundary, not mid-rune.
	long := "a" + strings.Repeat("日", 30)

	got := TruncateTitle(long)

	assert.True(t, utf8.ValidString(got), "truncated title must stay valid UTF-8")
	assert.LessOrEqual(t, len(got), MaxTitleLen)
	assert.True(t, strings.HasPrefix(long, got))
}

func TestTruncate_TrimsTrailingPunctuation(t *testing.T) {
	s := strings.Repeat("a", MaxTitleLen-2) + ", and more"
	got := TruncateTitle(s)
	assert.False(t, strings.HasSuffix(got, ","))
}

func TestGenerateMetaTags_Valid(t *testing.T) {
	fake := &fakeLLM{response: `{"meta_title": "Ace Plumbing | Springfield", "meta_description": "24/7 emergency plumbing in Springfield. Call Ace today."}`}
	gen := NewGenerator(fake)

	tags := gen.GenerateMetaTags(context.Background(), types.BusinessRecord{Name: "Ace Plumbing"}, types.Sources{})

	assert.Equal(t, "Ace Plumbing | Springfield", tags.Title)
	assert.Contains(t, tags.Description, "emergency plumbing")
}

func TestGenerateMetaTags_LLMErrorUsesFallback(t *testing.T) {
	fake := &fakeLLM{err: errors.New("quota exhausted")}
	gen := NewGenerator(fake)

	record := types.BusinessRecord{Name: "Ace Plumbing", City: "Springfield", Industry: "plumbing"}
	tags := gen.GenerateMetaTags(context.Background(), record, types.Sources{})

	assert.Equal(t, "Ace Plumbing | Springfield", tags.Title)
	assert.Contains(t, tags.Description, "plumbing")
	assert.LessOrEqual(t, len(tags.Description), MaxDescriptionLen)
}

func TestGenerateMetaTags_SchemaViolationUsesFallback(t *testing.T) {
	// meta_description missing fails validation.
	fake := &fakeLLM{response: `{"meta_title": "Only a title"}`}
	gen := NewGenerator(fake)

	tags := gen.GenerateMetaTags(context.Background(), types.BusinessRecord{Name: "Ace Plumbing"}, types.Sources{})

	assert.Equal(t, "Ace Plumbing", tags.Title)
	assert.NotEmpty(t, tags.Description)
}

func TestFallbackMetaTags_EmptyRecord(t *testing.T) {
	tags := FallbackMetaTags(types.BusinessRecord{})

	require.NotEmpty(t, tags.Title)
	require.NotEmpty(t, tags.Description)
	assert.LessOrEqual(t, len(tags.Title), MaxTitleLen)
	assert.LessOrEqual(t, len(tags.Description), MaxDescriptionLen)
}
