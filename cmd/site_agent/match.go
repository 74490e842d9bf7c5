package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-builder/internal/observability"
	"github.com/jonathan/site-builder/internal/templates"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match an industry to a site template",
	Long:  "Show the suggested template for an industry along with all compatible candidates.",
	RunE:  runMatch,
}

var matchIndustry string

func init() {
	matchCmd.Flags().StringVar(&matchIndustry, "industry", "", "Industry to match (e.g. landscaping, plumbing)")
	_ = matchCmd.MarkFlagRequired("industry")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	candidates := templates.ForIndustry(matchIndustry)
	if len(candidates) == 0 {
		return fmt.Errorf("no compatible template for industry %q", matchIndustry)
	}

	chosen, ok := templates.Suggested(matchIndustry)
	if !ok {
		chosen = candidates[0].ID
	}

	observability.NewPrinter(os.Stdout).PrintTemplateMatch(matchIndustry, chosen, templateCandidates(matchIndustry))
	return nil
}
