package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/directory"
	"github.com/jonathan/site-builder/internal/fetch"
	"github.com/jonathan/site-builder/internal/llm"
	"github.com/jonathan/site-builder/internal/seo"
	"github.com/jonathan/site-builder/internal/templates"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                       { return nil }

func newTestPipeline(t *testing.T, placesHandler http.Handler, client llm.Client) *Pipeline {
	t.Helper()
	server := httptest.NewServer(placesHandler)
	t.Cleanup(server.Close)

	placesClient := directory.NewPlacesClient("test-key", nil)
	placesClient.BaseURL = server.URL

	return &Pipeline{
		Importer: &directory.Importer{Places: placesClient},
		Content:  content.NewGenerator(client),
		SEO:      seo.NewGenerator(client),
		Out:      &bytes.Buffer{},
	}
}

const placePayload = `{
	"displayName": {"text": "Harbor Roofing"},
	"types": ["roofing_contractor"],
	"nationalPhoneNumber": "(555) 987-0000",
	"websiteUri": "https://harborroofing.example",
	"rating": 4.6,
	"userRatingCount": 40,
	"photos": [{"name": "places/x/photos/1"}]
}`

func TestRun_DryRunWithoutDatabase(t *testing.T) {
	client := &fakeLLM{response: `{"headline": "Roofs Done Right", "subhead": "Serving the harbor", "body": "Forty years of weathertight work.", "cta_label": "Get a Quote"}`}
	p := newTestPipeline(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(placePayload))
	}), client)

	var events []ProgressEvent
	outcome, err := p.Run(context.Background(), Options{
		PlaceID: "place-1",
		OnProgress: func(e ProgressEvent) {
			events = append(events, e)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, outcome.RunID)
	assert.Nil(t, outcome.Site, "no database, nothing persisted")
	assert.Equal(t, "Harbor Roofing", outcome.Record.Name)
	assert.Equal(t, "roofing", outcome.Record.Industry)
	assert.Equal(t, "classic-business", outcome.TemplateID)
	assert.Greater(t, outcome.Score.Total, 0)
	assert.NotEmpty(t, outcome.Content.Sections)
	assert.NotEmpty(t, outcome.Meta.Title)
	assert.NotEmpty(t, events)
	assert.Equal(t, "import", events[0].Step)
}

func TestRun_ImportFailure(t *testing.T) {
	p := newTestPipeline(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), &fakeLLM{})

	_, err := p.Run(context.Background(), Options{PlaceID: "place-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import failed")
}

func TestRun_RequiresSourceIdentifier(t *testing.T) {
	p := newTestPipeline(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(placePayload))
	}), &fakeLLM{})

	_, err := p.Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRun_LLMFailureDegradesToFallbackCopy(t *testing.T) {
	client := &fakeLLM{err: assert.AnError}
	p := newTestPipeline(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(placePayload))
	}), client)

	outcome, err := p.Run(context.Background(), Options{PlaceID: "place-1"})

	require.NoError(t, err, "generation degrades, never aborts")
	require.NotEmpty(t, outcome.Content.Sections)
	for _, section := range outcome.Content.Sections {
		assert.True(t, section.Fallback, "section %s should carry static copy", section.Section)
	}
	assert.NotEmpty(t, outcome.Meta.Title, "fallback meta tags still produced")
}

func TestChooseTemplate(t *testing.T) {
	tests := []struct {
		industry string
		want     string
	}{
		{"landscaping", "dream-garden"},
		{"plumbing", "bold-services"},
		{"roofing", "classic-business"},
		{"HVAC", "modern-tech"},
		{"taxidermy", "modern-tech"}, // no suggestion: first compatible wins
		{"", "modern-tech"},
	}

	for _, tt := range tests {
		t.Run(tt.industry, func(t *testing.T) {
			tpl := ChooseTemplate(tt.industry)
			assert.Equal(t, tt.want, tpl.ID)
		})
	}
}

func TestSiteColors_TemplateDefaults(t *testing.T) {
	tpl := templates.GetOrDefault("classic-business")

	colors := siteColors(tpl, nil)

	assert.Equal(t, tpl.Colors.Primary, colors["primary"])
	assert.Equal(t, tpl.Colors.Secondary, colors["secondary"])
	assert.Equal(t, tpl.Colors.Accent, colors["accent"])
}

func TestSiteColors_EnrichmentOverrides(t *testing.T) {
	tpl := templates.GetOrDefault("classic-business")
	enrichment := &fetch.Enrichment{BrandColors: []string{"#2f6f4e", "#f0a500"}}

	colors := siteColors(tpl, enrichment)

	assert.Equal(t, "#2f6f4e", colors["primary"])
	assert.Equal(t, "#f0a500", colors["accent"])
	assert.Equal(t, tpl.Colors.Secondary, colors["secondary"], "secondary stays with the template")
}
