package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/verimed/citegate/internal/citation"
	"github.com/verimed/citegate/internal/model"
)

const reportFooter = "Generated by citegate. Verification checks identifier presence, not claim accuracy."

// Renderer writes gate reports as JSON, Markdown, or a stdout summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new Renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes the report as a Markdown document to the given path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Citation Gate Report: %s\n\n", report.Subject)
	fmt.Fprintf(&sb, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	if report.Question != "" {
		fmt.Fprintf(&sb, "## Question\n\n%s\n\n", report.Question)
	}

	fmt.Fprintf(&sb, "## Answer\n\n%s\n\n", report.Answer)

	sb.WriteString("## Evidence Sources\n\n")
	if len(report.EvidenceSources) == 0 {
		sb.WriteString("None.\n\n")
	} else {
		for _, src := range report.EvidenceSources {
			fmt.Fprintf(&sb, "- %s: %s (%d chars)\n", src.Kind, src.Location, src.Chars)
		}
		fmt.Fprintf(&sb, "\nTotal evidence: %d chars\n\n", report.EvidenceChars)
	}

	sb.WriteString("## Verification\n\n```\n")
	sb.WriteString(citation.FormatValidationResults(report.Validation))
	sb.WriteString("```\n\n")

	if len(report.Flags) > 0 {
		sb.WriteString("## Clinical Flags\n\n")
		for _, flag := range report.Flags {
			fmt.Fprintf(&sb, "- [%s/%s] %s (matched %q)\n", flag.Type, flag.Severity, flag.Description, flag.Keyword)
		}
		sb.WriteString("\n")
	}

	if report.LLM != nil {
		fmt.Fprintf(&sb, "## Provider\n\n%s (%s), %d tokens\n\n", report.LLM.Provider, report.LLM.Model, report.LLM.TokensUsed)
	}

	if r.includeFooter {
		fmt.Fprintf(&sb, "---\n%s\n", reportFooter)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints the verification verdict and any flags to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println(citation.FormatValidationResults(report.Validation))

	for _, flag := range report.Flags {
		fmt.Printf("⚠ [%s] %s\n", flag.Severity, flag.Description)
	}
}

// RenderReport writes the report to the requested outputs and prints the
// stdout summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	if verbose && p.store != nil {
		stats := p.store.Stats()
		fmt.Printf("Cache: %d hits, %d misses (%.0f%% hit rate)\n", stats.Hits, stats.Misses, stats.HitRate()*100)
	}

	return nil
}
