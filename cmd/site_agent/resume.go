package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/pipeline"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <run-id>",
	Short: "Resume a failed onboarding run",
	Long:  "Re-run an onboarding run from its first incomplete step, reusing the artifacts of steps that already completed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

var (
	resumeConfigPath    string
	resumeSkipProvision bool
	resumeVerbose       bool
)

func init() {
	resumeCmd.Flags().StringVar(&resumeConfigPath, "config", "", "Path to config.json file")
	resumeCmd.Flags().BoolVar(&resumeSkipProvision, "skip-provision", false, "Skip CRM provisioning")
	resumeCmd.Flags().BoolVarP(&resumeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(resumeCmd)
}

func runResume(_ *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	ctx := context.Background()

	cfg, err := loadAgentConfig(resumeConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required to resume a run")
	}

	p, cleanup, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome, err := p.Resume(ctx, runID, pipeline.Options{
		SkipProvision: resumeSkipProvision,
		Verbose:       resumeVerbose,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintBusinessRecord(outcome.Record)
	printer.PrintScore(&outcome.Score)
	if outcome.Site != nil {
		fmt.Printf("\nSite: %s (%s)\n", outcome.Site.Subdomain, outcome.Site.ID)
	}
	return nil
}
