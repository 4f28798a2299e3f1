package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verimed/citegate/internal/pipeline"
	"github.com/verimed/citegate/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Check multiple response files from a manifest in parallel",
	Long: `Batch verifies many responses concurrently. The manifest lists one check
per line: a response file path followed by a comma-separated list of
evidence file paths. Blank lines and lines starting with # are skipped.

  answers/q1.md evidence/q1-pubmed.txt,evidence/q1-trials.txt
  answers/q2.md evidence/q2-pubmed.txt

Each check writes a JSON and Markdown report into the output directory.

Example:
  citegate batch checks.txt
  citegate batch checks.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./citegate-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringSliceVar(&exemptions, "exempt", nil, "extra exemption substrings for identifier-free references")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Batch check: %s (%d workers)\n", manifest, concurrency)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cfg := buildConfig()
	cfg.Concurrency.BatchWorkers = concurrency

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessManifest(ctx, manifest)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	validCount := 0
	invalidCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.ResponsePath, result.Error)
			continue
		}

		slug := sanitizeFilename(result.Report.Subject)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		renderer := p.Renderer()
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.ResponsePath, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.ResponsePath, err)
			continue
		}

		v := result.Report.Validation
		if v.IsValid {
			validCount++
			fmt.Fprintf(os.Stderr, "✓ %s (%d/%d citations verified)\n", result.ResponsePath, v.ValidCitations, v.TotalCitations)
		} else {
			invalidCount++
			fmt.Fprintf(os.Stderr, "✗ %s (%d hallucinated citations)\n", result.ResponsePath, v.InvalidCitations)
		}
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d checked, %d valid, %d invalid, %d errors\n",
		len(results), validCount, invalidCount, failureCount)
	fmt.Fprintf(os.Stderr, "Reports: %s\n", outputDir)

	if invalidCount > 0 || failureCount > 0 {
		return fmt.Errorf("%d response(s) failed verification, %d error(s)", invalidCount, failureCount)
	}

	return nil
}

// sanitizeFilename sanitizes a subject for use as a report filename
func sanitizeFilename(s string) string {
	s = filepath.Base(s)
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "report"
	}

	return s
}
