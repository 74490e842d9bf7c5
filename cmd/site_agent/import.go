package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/observability"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import business facts from GBP and Places",
	Long:  "Fetch business facts from Google Business Profile and/or Google Places, normalize them into a business record, and print the result.",
	RunE:  runImport,
}

var (
	importConfigPath  string
	importGBPLocation string
	importPlaceID     string
	importOutputFile  string
)

func init() {
	importCmd.Flags().StringVar(&importConfigPath, "config", "", "Path to config.json file")
	importCmd.Flags().StringVar(&importGBPLocation, "gbp-location", "", "Google Business Profile location ID")
	importCmd.Flags().StringVar(&importPlaceID, "place-id", "", "Google Places place ID")
	importCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Write the raw source facts as JSON to this file")

	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, _ []string) error {
	if importGBPLocation == "" && importPlaceID == "" {
		return fmt.Errorf("either --gbp-location or --place-id must be provided")
	}

	cfg, err := loadAgentConfig(importConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := newImporter(cfg).Import(ctx, importGBPLocation, importPlaceID)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, soft := range result.SoftErrors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", soft)
	}

	observability.NewPrinter(os.Stdout).PrintBusinessRecord(result.Record)

	if importOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(result.Sources, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(importOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Source facts written to %s\n", importOutputFile)
	}
	return nil
}
