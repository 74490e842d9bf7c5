// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/site-builder/internal/provision"
	"github.com/jonathan/site-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBusinessRecord outputs a human-readable summary of an imported record.
func (p *Printer) PrintBusinessRecord(record *types.BusinessRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.Name))
	if record.Industry != "" {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", record.Industry))
	}
	if record.City != "" {
		location := record.City
		if record.State != "" {
			location += ", " + record.State
		}
		sb.WriteString(fmt.Sprintf("Location: %s\n", location))
	}
	if record.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", record.Phone))
	}
	if record.Website != "" {
		sb.WriteString(fmt.Sprintf("Website:  %s\n", record.Website))
	}
	if len(record.PhotoURLs) > 0 {
		sb.WriteString(fmt.Sprintf("Photos:   %d\n", len(record.PhotoURLs)))
	}

	p.printBox("IMPORTED BUSINESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs a data score with its per-category breakdown.
func (p *Printer) PrintScore(score *types.DataScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %d/100  (tier: %s)\n\n", score.Total, score.Tier))

	categories := make([]string, 0, len(score.Breakdown))
	for cat := range score.Breakdown {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		if score.Breakdown[cat] == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-16s %d\n", cat, score.Breakdown[cat]))
	}

	p.printBox("DATA SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplateMatch outputs the chosen template and the candidate set.
func (p *Printer) PrintTemplateMatch(industry, chosen string, candidates []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Industry: %s\n", industry))
	sb.WriteString(fmt.Sprintf("Chosen:   %s\n", chosen))

	if len(candidates) > 0 {
		sb.WriteString("\nCompatible templates:\n")
		count := min(len(candidates), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", candidates[i]))
		}
		if len(candidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(candidates)-maxItemsToShow))
		}
	}

	p.printBox("TEMPLATE MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSiteContent outputs the generated sections and which fell back to
// static copy.
func (p *Printer) PrintSiteContent(content *types.SiteContent) {
	if content == nil || len(content.Sections) == 0 {
		return
	}

	var sb strings.Builder
	for _, sc := range content.Sections {
		marker := "generated"
		if sc.Fallback {
			marker = "fallback"
		}
		sb.WriteString(fmt.Sprintf("  %-14s %-18s [%s]\n", sc.Section, sc.Variant, marker))
	}

	p.printBox("GENERATED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProvisioning outputs the per-step provisioning status.
func (p *Printer) PrintProvisioning(rec *provision.Record) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	if rec.CRMLocationID != "" {
		sb.WriteString(fmt.Sprintf("CRM location: %s\n\n", rec.CRMLocationID))
	}

	stepNames := make([]string, 0, len(rec.Steps))
	for step := range rec.Steps {
		stepNames = append(stepNames, string(step))
	}
	sort.Strings(stepNames)

	for _, step := range stepNames {
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", step, rec.Steps[provision.Step(step)]))
	}

	p.printBox("CRM PROVISIONING", strings.TrimSuffix(sb.String(), "\n"))
}
