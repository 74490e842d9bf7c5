package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/scoring"
	"github.com/jonathan/site-builder/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the completeness of imported business data",
	Long:  "Compute the weighted data score for a business, either by importing facts fresh or from a JSON file written by the import command.",
	RunE:  runScore,
}

var (
	scoreConfigPath  string
	scoreGBPLocation string
	scorePlaceID     string
	scoreInputFile   string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file")
	scoreCmd.Flags().StringVar(&scoreGBPLocation, "gbp-location", "", "Google Business Profile location ID")
	scoreCmd.Flags().StringVar(&scorePlaceID, "place-id", "", "Google Places place ID")
	scoreCmd.Flags().StringVarP(&scoreInputFile, "in", "i", "", "Path to source facts JSON file (mutually exclusive with identifiers)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	useFile := scoreInputFile != ""
	useFetch := scoreGBPLocation != "" || scorePlaceID != ""

	if useFile && useFetch {
		return fmt.Errorf("cannot use --in with --gbp-location/--place-id")
	}
	if !useFile && !useFetch {
		return fmt.Errorf("must provide either --in or a source identifier")
	}

	var sources types.Sources
	if useFile {
		data, err := os.ReadFile(scoreInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		if err := json.Unmarshal(data, &sources); err != nil {
			return fmt.Errorf("failed to parse source facts: %w", err)
		}
	} else {
		cfg, err := loadAgentConfig(scoreConfigPath)
		if err != nil {
			return err
		}
		result, err := newImporter(cfg).Import(context.Background(), scoreGBPLocation, scorePlaceID)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		sources = result.Sources
	}

	score := scoring.Calculate(sources)
	observability.NewPrinter(os.Stdout).PrintScore(&score)
	return nil
}
