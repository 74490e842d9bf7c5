package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/pipeline"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Run the full onboarding pipeline end-to-end",
	Long: `Orchestrates the entire onboarding process: import -> enrich -> score -> match -> generate -> persist -> provision.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runOnboard,
}

var (
	onboardConfigPath    string
	onboardSubdomain     string
	onboardGBPLocation   string
	onboardPlaceID       string
	onboardOwnerEmail    string
	onboardOwnerFirst    string
	onboardOwnerLast     string
	onboardWebsiteURL    string
	onboardSkipProvision bool
	onboardUseBrowser    bool
	onboardVerbose       bool
	onboardDatabaseURL   string
)

func init() {
	onboardCmd.Flags().StringVar(&onboardConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	onboardCmd.Flags().StringVarP(&onboardSubdomain, "subdomain", "s", "", "Subdomain to publish the site under (derived from the business name if omitted)")
	onboardCmd.Flags().StringVar(&onboardGBPLocation, "gbp-location", "", "Google Business Profile location ID")
	onboardCmd.Flags().StringVar(&onboardPlaceID, "place-id", "", "Google Places place ID")
	onboardCmd.Flags().StringVar(&onboardOwnerEmail, "owner-email", "", "Business owner email for CRM provisioning")
	onboardCmd.Flags().StringVar(&onboardOwnerFirst, "owner-first", "", "Business owner first name")
	onboardCmd.Flags().StringVar(&onboardOwnerLast, "owner-last", "", "Business owner last name")
	onboardCmd.Flags().StringVar(&onboardWebsiteURL, "website", "", "Existing website URL to enrich facts from")
	onboardCmd.Flags().BoolVar(&onboardSkipProvision, "skip-provision", false, "Skip CRM provisioning")
	onboardCmd.Flags().BoolVar(&onboardUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	onboardCmd.Flags().BoolVarP(&onboardVerbose, "verbose", "v", false, "Print detailed debug information")
	onboardCmd.Flags().StringVar(&onboardDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadAgentConfig(onboardConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = onboardUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = onboardVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = onboardDatabaseURL
	}

	if onboardGBPLocation == "" && onboardPlaceID == "" {
		return fmt.Errorf("either --gbp-location or --place-id must be provided")
	}

	p, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if p.DB == nil {
		fmt.Fprintln(os.Stderr, "Warning: no DATABASE_URL set; running without persistence")
	}

	outcome, err := p.Run(ctx, pipeline.Options{
		Subdomain:     onboardSubdomain,
		GBPLocationID: onboardGBPLocation,
		PlaceID:       onboardPlaceID,
		OwnerEmail:    onboardOwnerEmail,
		OwnerFirst:    onboardOwnerFirst,
		OwnerLast:     onboardOwnerLast,
		WebsiteURL:    onboardWebsiteURL,
		SkipProvision: onboardSkipProvision,
		Verbose:       cfg.Verbose,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintBusinessRecord(outcome.Record)
	printer.PrintScore(&outcome.Score)
	printer.PrintTemplateMatch(outcome.Record.Industry, outcome.TemplateID, templateCandidates(outcome.Record.Industry))
	printer.PrintSiteContent(&outcome.Content)
	if outcome.Provisioning != nil {
		printer.PrintProvisioning(outcome.Provisioning)
	}

	if outcome.Site != nil {
		fmt.Printf("\nSite created: %s (%s)\n", outcome.Site.Subdomain, outcome.Site.ID)
	}
	return nil
}
