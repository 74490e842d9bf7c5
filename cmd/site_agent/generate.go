package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/content"
	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/scoring"
	"github.com/jonathan/site-builder/internal/seo"
	"github.com/jonathan/site-builder/internal/templates"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate site copy and SEO metadata for a business",
	Long:  "Import business facts, pick a template, and generate all site sections plus meta tags. Does not persist anything.",
	RunE:  runGenerate,
}

var (
	generateConfigPath  string
	generateGBPLocation string
	generatePlaceID     string
	generateTemplateID  string
	generateOutputFile  string
)

func init() {
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to config.json file")
	generateCmd.Flags().StringVar(&generateGBPLocation, "gbp-location", "", "Google Business Profile location ID")
	generateCmd.Flags().StringVar(&generatePlaceID, "place-id", "", "Google Places place ID")
	generateCmd.Flags().StringVarP(&generateTemplateID, "template", "t", "", "Template ID (defaults to the industry suggestion)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Write the generated content and meta tags as JSON to this file")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	if generateGBPLocation == "" && generatePlaceID == "" {
		return fmt.Errorf("either --gbp-location or --place-id must be provided")
	}

	cfg, err := loadAgentConfig(generateConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	result, err := newImporter(cfg).Import(ctx, generateGBPLocation, generatePlaceID)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	score := scoring.Calculate(result.Sources)

	tpl := templates.GetOrDefault(generateTemplateID)
	if generateTemplateID == "" {
		if id, ok := templates.Suggested(result.Record.Industry); ok {
			tpl = templates.GetOrDefault(id)
		} else if candidates := templates.ForIndustry(result.Record.Industry); len(candidates) > 0 {
			tpl = candidates[0]
		}
	}

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = llmClient.Close() }()

	siteContent, err := content.NewGenerator(llmClient).GenerateSite(ctx, *result.Record, result.Sources, score, tpl)
	if err != nil {
		return fmt.Errorf("content generation failed: %w", err)
	}
	meta := seo.NewGenerator(llmClient).GenerateMetaTags(ctx, *result.Record, result.Sources)

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintBusinessRecord(result.Record)
	printer.PrintSiteContent(&siteContent)
	fmt.Printf("Meta title:       %s\n", meta.Title)
	fmt.Printf("Meta description: %s\n", meta.Description)

	if generateOutputFile != "" {
		payload := map[string]any{
			"template_id": tpl.ID,
			"content":     siteContent,
			"meta":        meta,
		}
		jsonBytes, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(generateOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Generated content written to %s\n", generateOutputFile)
	}
	return nil
}
