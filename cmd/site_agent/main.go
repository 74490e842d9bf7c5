// Package main provides the entry point for the site builder agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "site_agent",
	Short: "Done-for-you website builder for local service businesses",
	Long:  "site_agent imports business facts from Google Business Profile and Places, scores them, matches a template, generates site copy and SEO metadata, and provisions the business in the CRM.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
