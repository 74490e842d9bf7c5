package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/site-builder/internal/cache"
	"github.com/jonathan/site-builder/internal/config"
	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/crm"
	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/directory"
	"github.com/jonathan/site-builder/internal/fetch"
	"github.com/jonathan/site-builder/internal/llm"
	"github.com/jonathan/site-builder/internal/pipeline"
	"github.com/jonathan/site-builder/internal/provision"
	"github.com/jonathan/site-builder/internal/seo"
	"github.com/jonathan/site-builder/internal/templates"
)

// templateCandidates lists the IDs of templates compatible with an industry.
func templateCandidates(industry string) []string {
	configs := templates.ForIndustry(industry)
	ids := make([]string, 0, len(configs))
	for _, tpl := range configs {
		ids = append(ids, tpl.ID)
	}
	return ids
}

// loadAgentConfig loads the JSON config file when a path is given, fills the
// gaps from environment variables, and validates the result.
func loadAgentConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newImporter builds the directory importer with a shared response cache.
func newImporter(cfg *config.Config) *directory.Importer {
	responseCache := cache.New(cache.DefaultOptions())
	return &directory.Importer{
		GBP:    directory.NewGBPClient(gbpTokenSource(cfg), responseCache),
		Places: directory.NewPlacesClient(cfg.PlacesAPIKey, responseCache),
	}
}

// gbpTokenSource prefers OAuth refresh credentials so long-running agents
// survive access token expiry; a bare access token is the fallback.
func gbpTokenSource(cfg *config.Config) directory.TokenSource {
	if cfg.GBPClientID != "" && cfg.GBPClientSecret != "" && cfg.GBPRefreshToken != "" {
		return directory.NewRefreshingTokenSource(cfg.GBPClientID, cfg.GBPClientSecret, cfg.GBPRefreshToken)
	}
	return directory.StaticToken(cfg.GBPAccessToken)
}

// newLLMClient builds the Gemini client. The caller owns closing it.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or gemini_api_key config value is required")
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newPipeline wires the full onboarding pipeline from config. The database,
// browser enrichment, and CRM saga are optional: commands that run without
// them degrade to a dry run. The returned cleanup func closes whatever was
// opened.
func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanup = func() { database.Close() }
	}

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	closeAll := func() {
		_ = llmClient.Close()
		if database != nil {
			database.Close()
		}
	}

	p := &pipeline.Pipeline{
		DB:       database,
		Importer: newImporter(cfg),
		Content:  content.NewGenerator(llmClient),
		SEO:      seo.NewGenerator(llmClient),
		Fetcher: fetch.NewCachedFetcher(database, &fetch.CachedFetcherConfig{
			CacheTTL: 24 * time.Hour,
		}),
	}

	if cfg.CRMBaseURL != "" && database != nil {
		crmClient := crm.NewClient(cfg.CRMBaseURL, cfg.CRMAPIKey)
		p.Saga = provision.NewSaga(crmClient, db.NewProvisionStore(database))
	}

	return p, closeAll, nil
}
