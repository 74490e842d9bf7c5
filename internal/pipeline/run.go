// Package pipeline provides the high-level orchestration for onboarding a
// business: import, score, match, generate, persist, provision.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/directory"
	"github.com/jonathan/site-builder/internal/fetch"
	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/pipeline/steps"
	"github.com/jonathan/site-builder/internal/provision"
	"github.com/jonathan/site-builder/internal/scoring"
	"github.com/jonathan/site-builder/internal/seo"
	"github.com/jonathan/site-builder/internal/templates"
	"github.com/jonathan/site-builder/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for one onboarding run
type Options struct {
	Subdomain     string // derived from the business name when empty
	GBPLocationID string
	PlaceID       string
	Manual        *types.ManualFacts
	OwnerEmail    string
	OwnerFirst    string
	OwnerLast     string
	WebsiteURL    string // overrides the imported website for enrichment
	SkipProvision bool
	Verbose       bool
	OnProgress    ProgressCallback
}

// maxGeneratedServices caps per-service LLM description calls for one run.
const maxGeneratedServices = 8

// Pipeline wires the onboarding stages together. DB, Fetcher, and Saga are
// optional; a nil DB disables run tracking and persistence (dry runs), a nil
// Saga skips CRM provisioning.
type Pipeline struct {
	DB       *db.DB
	Importer *directory.Importer
	Content  *content.Generator
	SEO      *seo.Generator
	Fetcher  *fetch.CachedFetcher
	Saga     *provision.Saga
	Out      io.Writer
}

// Outcome is everything one onboarding run produced.
type Outcome struct {
	RunID        uuid.UUID             `json:"run_id,omitempty"`
	Site         *db.Site              `json:"site,omitempty"`
	Record       *types.BusinessRecord `json:"record"`
	Score        types.DataScore       `json:"score"`
	TemplateID   string                `json:"template_id"`
	Content      types.SiteContent     `json:"content"`
	Meta         seo.MetaTags          `json:"meta"`
	Enrichment   *fetch.Enrichment     `json:"enrichment,omitempty"`
	Provisioning *provision.Record     `json:"provisioning,omitempty"`
}

func (p *Pipeline) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func emitProgress(opts *Options, runID uuid.UUID, step, message string, content any) {
	if opts.OnProgress != nil {
		event := ProgressEvent{Step: step, Message: message, Content: content}
		if runID != uuid.Nil {
			event.RunID = runID.String()
		}
		opts.OnProgress(event)
	}
}

// Run executes the full onboarding pipeline for a business.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Outcome, error) {
	printer := observability.NewPrinter(p.out())
	out := p.out()

	var runID uuid.UUID
	if p.DB != nil {
		var err error
		runID, err = p.DB.CreateRun(ctx, opts.Subdomain, opts.GBPLocationID, opts.PlaceID)
		if err != nil {
			fmt.Fprintf(out, "Warning: failed to create run record: %v\n", err)
			fmt.Fprintf(out, "Continuing without run tracking...\n")
			runID = uuid.Nil
		}
	}

	outcome, err := p.execute(ctx, runID, opts, printer)

	if p.DB != nil && runID != uuid.Nil {
		status := db.RunStatusCompleted
		if err != nil {
			status = db.RunStatusFailed
		}
		_ = p.DB.CompleteRun(ctx, runID, status)
	}
	return outcome, err
}

// Resume re-runs an onboarding run, skipping steps that already completed.
// Artifacts from completed steps are loaded from the database.
func (p *Pipeline) Resume(ctx context.Context, runID uuid.UUID, opts Options) (*Outcome, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("resume requires a database")
	}

	run, err := p.DB.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	if opts.Subdomain == "" {
		opts.Subdomain = run.Subdomain
	}
	if opts.GBPLocationID == "" {
		opts.GBPLocationID = run.GBPLocationID
	}
	if opts.PlaceID == "" {
		opts.PlaceID = run.GBPPlaceID
	}

	available, err := steps.GetAvailableSteps(ctx, p.DB, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect run steps: %w", err)
	}
	if len(available) == 0 {
		fmt.Fprintf(p.out(), "No runnable steps remain; replaying completed artifacts\n")
	} else {
		fmt.Fprintf(p.out(), "Resuming from: %s\n", available[0])
	}

	printer := observability.NewPrinter(p.out())
	outcome, err := p.execute(ctx, runID, opts, printer)

	status := db.RunStatusCompleted
	if err != nil {
		status = db.RunStatusFailed
	}
	_ = p.DB.CompleteRun(ctx, runID, status)
	return outcome, err
}

func (p *Pipeline) execute(ctx context.Context, runID uuid.UUID, opts Options, printer *observability.Printer) (*Outcome, error) {
	out := p.out()
	outcome := &Outcome{RunID: runID}

	// Step 1: Import business data
	fmt.Fprintf(out, "Step 1/7: Importing business data...\n")
	record, sources, err := p.runImport(ctx, runID, opts)
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}
	if opts.Manual != nil {
		sources.Manual = opts.Manual
	}
	outcome.Record = record
	if opts.Verbose {
		printer.PrintBusinessRecord(record)
	}
	emitProgress(&opts, runID, db.StepImport,
		fmt.Sprintf("Imported %s", record.Name), nil)

	// Step 2: Enrich from the existing website (optional, soft failure)
	websiteURL := opts.WebsiteURL
	if websiteURL == "" {
		websiteURL = record.Website
	}
	if p.Fetcher != nil && websiteURL != "" {
		fmt.Fprintf(out, "Step 2/7: Enriching from existing website: %s...\n", websiteURL)
		outcome.Enrichment = p.runEnrich(ctx, websiteURL)
	} else {
		fmt.Fprintf(out, "Step 2/7: No existing website, skipping enrichment.\n")
	}

	// Step 3: Score the available data
	fmt.Fprintf(out, "Step 3/7: Scoring business data...\n")
	outcome.Score = p.runScore(ctx, runID, sources)
	if opts.Verbose {
		printer.PrintScore(&outcome.Score)
	}
	emitProgress(&opts, runID, db.StepScore,
		fmt.Sprintf("Scored %d/100 (%s)", outcome.Score.Total, outcome.Score.Tier), outcome.Score)

	// Step 4: Match a template
	fmt.Fprintf(out, "Step 4/7: Matching template for industry %q...\n", record.Industry)
	tpl, candidates := p.runMatch(ctx, runID, record.Industry)
	outcome.TemplateID = tpl.ID
	if opts.Verbose {
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.ID)
		}
		printer.PrintTemplateMatch(record.Industry, tpl.ID, names)
	}
	emitProgress(&opts, runID, db.StepMatch,
		fmt.Sprintf("Matched template %s", tpl.ID), nil)

	// Step 5: Generate copy and SEO metadata
	fmt.Fprintf(out, "Step 5/7: Generating site copy...\n")
	siteContent, meta, err := p.runGenerate(ctx, runID, *record, sources, outcome.Score, tpl)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}
	outcome.Content = siteContent
	outcome.Meta = meta
	if opts.Verbose {
		printer.PrintSiteContent(&siteContent)
	}
	emitProgress(&opts, runID, db.StepContent,
		fmt.Sprintf("Generated %d sections", len(siteContent.Sections)), nil)

	// Step 6: Persist the site
	if p.DB == nil {
		fmt.Fprintf(out, "Step 6/7: No database configured, skipping persistence.\n")
		fmt.Fprintf(out, "Step 7/7: Skipping CRM provisioning (no site record).\n")
		return outcome, nil
	}

	fmt.Fprintf(out, "Step 6/7: Persisting site...\n")
	site, err := p.runPersist(ctx, runID, opts, record, sources, outcome, tpl)
	if err != nil {
		return nil, fmt.Errorf("persisting site failed: %w", err)
	}
	outcome.Site = site
	emitProgress(&opts, runID, db.StepPersist,
		fmt.Sprintf("Created site %s (%s)", site.Subdomain, site.ID), nil)

	// Step 7: CRM provisioning (optional, non-critical)
	if opts.SkipProvision || p.Saga == nil {
		fmt.Fprintf(out, "Step 7/7: CRM provisioning skipped.\n")
		if runID != uuid.Nil {
			_ = p.DB.SkipRunStep(ctx, runID, db.StepProvision)
		}
		return outcome, nil
	}

	fmt.Fprintf(out, "Step 7/7: Provisioning CRM...\n")
	outcome.Provisioning = p.runProvision(ctx, runID, opts, site, record)
	if opts.Verbose {
		printer.PrintProvisioning(outcome.Provisioning)
	}

	fmt.Fprintf(out, "Done! Site %s is ready.\n", site.Subdomain)
	return outcome, nil
}

// stepCompleted reports whether a step finished in a previous run and, if an
// artifact type is given, loads the stored artifact into it.
func (p *Pipeline) stepCompleted(ctx context.Context, runID uuid.UUID, step string, artifact any) bool {
	if p.DB == nil || runID == uuid.Nil {
		return false
	}

	st, err := p.DB.GetRunStep(ctx, runID, step)
	if err != nil || st == nil || st.Status != db.StepStatusCompleted {
		return false
	}
	if artifact == nil {
		return true
	}

	data, err := p.DB.GetArtifact(ctx, runID, step)
	if err != nil || data == nil {
		return false
	}
	return json.Unmarshal(data, artifact) == nil
}

func (p *Pipeline) trackStep(ctx context.Context, runID uuid.UUID, step string) func(err error, artifact any) {
	if p.DB == nil || runID == uuid.Nil {
		return func(error, any) {}
	}

	_ = p.DB.StartRunStep(ctx, runID, step)
	return func(err error, artifact any) {
		if err != nil {
			_ = p.DB.FailRunStep(ctx, runID, step, err.Error())
			return
		}
		if artifact != nil {
			_ = p.DB.SaveArtifact(ctx, runID, step, artifact)
		}
		_ = p.DB.FinishRunStep(ctx, runID, step)
	}
}

type importArtifact struct {
	Record  *types.BusinessRecord `json:"record"`
	Sources types.Sources         `json:"sources"`
}

func (p *Pipeline) runImport(ctx context.Context, runID uuid.UUID, opts Options) (*types.BusinessRecord, types.Sources, error) {
	var prior importArtifact
	if p.stepCompleted(ctx, runID, db.StepImport, &prior) && prior.Record != nil {
		return prior.Record, prior.Sources, nil
	}

	done := p.trackStep(ctx, runID, db.StepImport)

	result, err := p.Importer.Import(ctx, opts.GBPLocationID, opts.PlaceID)
	if err != nil {
		done(err, nil)
		return nil, types.Sources{}, err
	}
	for _, soft := range result.SoftErrors {
		fmt.Fprintf(p.out(), "Warning: import degraded: %v\n", soft)
	}

	done(nil, importArtifact{Record: result.Record, Sources: result.Sources})
	return result.Record, result.Sources, nil
}

func (p *Pipeline) runEnrich(ctx context.Context, websiteURL string) *fetch.Enrichment {
	result, err := p.Fetcher.Fetch(ctx, websiteURL)
	if err != nil {
		fmt.Fprintf(p.out(), "Warning: website enrichment failed: %v\n", err)
		return nil
	}

	html := result.HTML
	if fetch.ShouldUseBrowser(result.Text) {
		rendered, err := fetch.BrowserSimple(ctx, websiteURL, false)
		if err == nil {
			html = rendered
		}
	}

	enrichment, err := fetch.Extract(html, websiteURL)
	if err != nil {
		fmt.Fprintf(p.out(), "Warning: branding extraction failed: %v\n", err)
		return nil
	}
	return enrichment
}

func (p *Pipeline) runScore(ctx context.Context, runID uuid.UUID, sources types.Sources) types.DataScore {
	var prior types.DataScore
	if p.stepCompleted(ctx, runID, db.StepScore, &prior) && prior.Breakdown != nil {
		return prior
	}

	done := p.trackStep(ctx, runID, db.StepScore)
	score := scoring.Calculate(sources)
	done(nil, score)
	return score
}

type matchArtifact struct {
	TemplateID string `json:"template_id"`
}

func (p *Pipeline) runMatch(ctx context.Context, runID uuid.UUID, industry string) (*templates.Config, []*templates.Config) {
	candidates := templates.ForIndustry(industry)

	var prior matchArtifact
	if p.stepCompleted(ctx, runID, db.StepMatch, &prior) && prior.TemplateID != "" {
		return templates.GetOrDefault(prior.TemplateID), candidates
	}

	done := p.trackStep(ctx, runID, db.StepMatch)
	tpl := ChooseTemplate(industry)
	done(nil, matchArtifact{TemplateID: tpl.ID})
	return tpl, candidates
}

// ChooseTemplate picks the template for an industry: the suggested default
// when one is registered, otherwise the first compatible template, otherwise
// the global default.
func ChooseTemplate(industry string) *templates.Config {
	if id, ok := templates.Suggested(industry); ok {
		return templates.GetOrDefault(id)
	}

	candidates := templates.ForIndustry(industry)
	if len(candidates) > 0 {
		return candidates[0]
	}
	return templates.GetOrDefault(templates.DefaultTemplateID)
}

type generateArtifact struct {
	Content types.SiteContent `json:"content"`
	Meta    seo.MetaTags      `json:"meta"`
}

func (p *Pipeline) runGenerate(ctx context.Context, runID uuid.UUID, record types.BusinessRecord, sources types.Sources, score types.DataScore, tpl *templates.Config) (types.SiteContent, seo.MetaTags, error) {
	var prior generateArtifact
	if p.stepCompleted(ctx, runID, db.StepContent, &prior) && len(prior.Content.Sections) > 0 {
		return prior.Content, prior.Meta, nil
	}

	doneContent := p.trackStep(ctx, runID, db.StepContent)
	siteContent, err := p.Content.GenerateSite(ctx, record, sources, score, tpl)
	if err != nil {
		doneContent(err, nil)
		return types.SiteContent{}, seo.MetaTags{}, err
	}
	doneContent(nil, nil)

	doneSEO := p.trackStep(ctx, runID, db.StepSEO)
	meta := p.SEO.GenerateMetaTags(ctx, record, sources)
	doneSEO(nil, meta)

	// The combined artifact is saved under the content step so resume can
	// restore both in one read.
	if p.DB != nil && runID != uuid.Nil {
		_ = p.DB.SaveArtifact(ctx, runID, db.StepContent, generateArtifact{Content: siteContent, Meta: meta})
	}
	return siteContent, meta, nil
}

func (p *Pipeline) runPersist(ctx context.Context, runID uuid.UUID, opts Options, record *types.BusinessRecord, sources types.Sources, outcome *Outcome, tpl *templates.Config) (*db.Site, error) {
	// Resume: if the run already created a site, reuse it.
	if runID != uuid.Nil {
		if run, err := p.DB.GetRun(ctx, runID); err == nil && run != nil && run.SiteID != nil {
			if site, err := p.DB.GetSiteByID(ctx, *run.SiteID); err == nil && site != nil {
				return site, nil
			}
		}
	}

	done := p.trackStep(ctx, runID, db.StepPersist)

	subdomain := opts.Subdomain
	if subdomain == "" {
		subdomain = db.NormalizeSubdomain(record.Name)
	}

	site, err := p.DB.CreateSite(ctx, &db.SiteCreateInput{
		Subdomain:     subdomain,
		BusinessName:  record.Name,
		Industry:      record.Industry,
		TemplateID:    tpl.ID,
		Colors:        siteColors(tpl, outcome.Enrichment),
		Phone:         record.Phone,
		Street:        record.Street,
		City:          record.City,
		State:         record.State,
		Zip:           record.Zip,
		GBPLocationID: record.GBPLocation,
		GBPPlaceID:    record.PlaceID,
	})
	if err != nil {
		done(err, nil)
		return nil, err
	}

	if runID != uuid.Nil {
		_ = p.DB.AttachRunSite(ctx, runID, site.ID)
	}

	// Snapshot the imported data for audit and re-scoring.
	recordJSON, _ := json.Marshal(record)
	sourcesJSON, _ := json.Marshal(sources)
	scoreJSON, _ := json.Marshal(outcome.Score)
	if _, err := p.DB.SaveBusinessSnapshot(ctx, site.ID, recordJSON, sourcesJSON, scoreJSON, time.Now()); err != nil {
		fmt.Fprintf(p.out(), "Warning: failed to save business snapshot: %v\n", err)
	}

	// Home page holds the generated section blocks.
	contentJSON, _ := json.Marshal(outcome.Content)
	if _, err := p.DB.CreatePage(ctx, site.ID, "home", record.Name, contentJSON, 0); err != nil {
		fmt.Fprintf(p.out(), "Warning: failed to create home page: %v\n", err)
	}

	p.persistServices(ctx, site.ID, record, sources)

	meta := outcome.Meta
	if _, err := p.DB.UpdateSite(ctx, site.ID, &db.SiteUpdateInput{
		MetaTitle:       &meta.Title,
		MetaDescription: &meta.Description,
	}); err != nil {
		fmt.Fprintf(p.out(), "Warning: failed to set SEO metadata: %v\n", err)
	}

	done(nil, nil)
	return site, nil
}

func (p *Pipeline) persistServices(ctx context.Context, siteID uuid.UUID, record *types.BusinessRecord, sources types.Sources) {
	if sources.GBP == nil {
		return
	}

	services := sources.GBP.Services
	if len(services) > maxGeneratedServices {
		services = services[:maxGeneratedServices]
	}

	for i, name := range services {
		description := ""
		if p.Content != nil {
			desc, err := p.Content.DescribeService(ctx, *record, name)
			if err == nil {
				description = desc
			}
		}
		if _, err := p.DB.CreateService(ctx, siteID, name, description, "", i); err != nil {
			fmt.Fprintf(p.out(), "Warning: failed to create service %q: %v\n", name, err)
		}
	}
}

// siteColors prefers colors scraped from the business's existing site over
// the template defaults.
func siteColors(tpl *templates.Config, enrichment *fetch.Enrichment) db.JSONMap {
	colors := db.JSONMap{
		"primary":   tpl.Colors.Primary,
		"secondary": tpl.Colors.Secondary,
		"accent":    tpl.Colors.Accent,
	}

	if enrichment != nil && len(enrichment.BrandColors) > 0 {
		colors["primary"] = enrichment.BrandColors[0]
		if len(enrichment.BrandColors) > 1 {
			colors["accent"] = enrichment.BrandColors[1]
		}
	}
	return colors
}

func (p *Pipeline) runProvision(ctx context.Context, runID uuid.UUID, opts Options, site *db.Site, record *types.BusinessRecord) *provision.Record {
	done := p.trackStep(ctx, runID, db.StepProvision)

	rec, err := p.Saga.Run(ctx, provision.Input{
		SiteID:       site.ID.String(),
		BusinessName: site.BusinessName,
		Phone:        site.Phone,
		Street:       site.Street,
		City:         site.City,
		State:        site.State,
		Zip:          site.Zip,
		SiteURL:      fmt.Sprintf("https://%s.example-sites.com", site.Subdomain),
		OwnerEmail:   opts.OwnerEmail,
		OwnerFirst:   opts.OwnerFirst,
		OwnerLast:    opts.OwnerLast,
	})
	if err != nil {
		// Provisioning is non-critical; the site exists either way.
		fmt.Fprintf(p.out(), "Warning: CRM provisioning failed: %v\n", err)
		done(err, nil)
		return nil
	}

	done(nil, rec.Steps)
	return rec
}
