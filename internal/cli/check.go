package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verimed/citegate/internal/citation"
	"github.com/verimed/citegate/internal/model"
	"github.com/verimed/citegate/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	timeout       time.Duration
	userAgent     string
	maxBytes      int64
	noCache       bool
	noFooter      bool
	httpProxy     string
	httpsProxy    string
	noProxy       string
	evidenceFiles []string
	evidenceURLs  []string
	evidenceStdin bool
	exemptions    []string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <response-file>",
	Short: "Verify the citations in an existing response against evidence",
	Long: `Check parses the numbered references in a response file and verifies
that every PMID, DOI, and NCT ID it cites is literally present in the
supplied evidence. References without identifiers are accepted only when
they name an authoritative non-indexed source (FDA databases, guideline
bodies).

Evidence can come from local files, from URLs (fetched with robots.txt
respected, HTML reduced to visible text), and from stdin.

The command exits non-zero when hallucinated citations are found, so it
can gate responses in scripts and CI.

Example:
  citegate check answer.md --evidence pubmed-abstracts.txt
  citegate check answer.md -e abstracts.txt -e trial.txt --json report.json
  citegate check answer.md --evidence-url https://example.org/study.html`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Evidence flags
	checkCmd.Flags().StringSliceVarP(&evidenceFiles, "evidence", "e", nil, "evidence file (repeatable)")
	checkCmd.Flags().StringSliceVar(&evidenceURLs, "evidence-url", nil, "evidence URL (repeatable)")
	checkCmd.Flags().BoolVar(&evidenceStdin, "stdin", false, "read additional evidence from stdin")
	checkCmd.Flags().StringSliceVar(&exemptions, "exempt", nil, "extra exemption substrings for identifier-free references")

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout")
	checkCmd.Flags().StringVar(&userAgent, "ua", "Citegate/0.1 (+https://github.com/verimed/citegate)", "HTTP User-Agent")
	checkCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per fetch")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetches)")
	checkCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	checkCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	checkCmd.Flags().StringVar(&noProxy, "no-proxy", "", "comma-separated hosts to bypass the proxy")
}

// buildConfig assembles the pipeline configuration from the shared flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.HTTP.NoProxy = noProxy
	cfg.Cache.Enabled = !noCache
	if len(exemptions) > 0 {
		cfg.Validation.Exemptions = append(citation.DefaultExemptions(), exemptions...)
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	return cfg
}

func runCheck(cmd *cobra.Command, args []string) error {
	responsePath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", responsePath)
		fmt.Fprintf(os.Stderr, "Evidence files: %d, URLs: %d\n", len(evidenceFiles), len(evidenceURLs))
		fmt.Fprintln(os.Stderr)
	}

	response, err := os.ReadFile(responsePath)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var stdinEvidence string
	if evidenceStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		stdinEvidence = string(data)
	}

	p := pipeline.NewPipeline(buildConfig())

	report, err := p.Gate(ctx, pipeline.GateRequest{
		Response:      string(response),
		EvidenceFiles: evidenceFiles,
		EvidenceURLs:  evidenceURLs,
		EvidenceStdin: stdinEvidence,
		Subject:       responsePath,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if !report.Validation.IsValid {
		return fmt.Errorf("%d hallucinated citation(s) detected", report.Validation.InvalidCitations)
	}

	return nil
}
