package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verimed/citegate/internal/model"
	"github.com/verimed/citegate/internal/pipeline"
)

// Generation plus searches can be slow, so ask gets a longer default
const askDefaultTimeout = 3 * time.Minute

var (
	llmProvider string
	llmModel    string
	usePubMed   bool
	useTrials   bool
	showInvalid bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question, generate an answer, and gate it before display",
	Long: `Ask sends a question to the configured LLM provider with the assembled
evidence, then verifies every citation in the generated answer against
that same evidence. Answers that fail verification are withheld unless
--show-invalid is set.

Evidence can come from local files, URLs, and live literature searches
(PubMed and ClinicalTrials.gov keyed on the question).

Example:
  citegate ask "Does aspirin reduce cardiovascular risk?" --pubmed
  citegate ask "Is metformin safe in CKD?" -e guidelines.txt --llm-provider ollama --llm-model llama3.2
  citegate ask "GLP-1 agonist trials?" --pubmed --trials --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	// Evidence flags
	askCmd.Flags().StringSliceVarP(&evidenceFiles, "evidence", "e", nil, "evidence file (repeatable)")
	askCmd.Flags().StringSliceVar(&evidenceURLs, "evidence-url", nil, "evidence URL (repeatable)")
	askCmd.Flags().BoolVar(&usePubMed, "pubmed", false, "add PubMed search results to the evidence")
	askCmd.Flags().BoolVar(&useTrials, "trials", false, "add ClinicalTrials.gov search results to the evidence")
	askCmd.Flags().StringSliceVar(&exemptions, "exempt", nil, "extra exemption substrings for identifier-free references")

	// LLM flags
	askCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	askCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
	askCmd.Flags().BoolVar(&showInvalid, "show-invalid", false, "print the answer even when verification fails")

	// Output flags
	askCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	askCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path (optional)")
	askCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	askCmd.Flags().DurationVar(&timeout, "timeout", askDefaultTimeout, "overall timeout")
	askCmd.Flags().StringVar(&userAgent, "ua", "Citegate/0.1 (+https://github.com/verimed/citegate)", "HTTP User-Agent")
	askCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per fetch")
	askCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetches)")
	askCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	askCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	askCmd.Flags().StringVar(&noProxy, "no-proxy", "", "comma-separated hosts to bypass the proxy")
}

// resolveLLM fills in provider credentials from the environment
func resolveLLM(cfg *model.Config, provider, modelName string) error {
	cfg.LLM.Provider = provider
	cfg.LLM.Model = modelName

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", provider)
	}

	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()
	if err := resolveLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Question: %s\n", question)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", llmProvider)
		fmt.Fprintf(os.Stderr, "Searches: pubmed=%v trials=%v\n", usePubMed, useTrials)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.Gate(ctx, pipeline.GateRequest{
		Question:      question,
		EvidenceFiles: evidenceFiles,
		EvidenceURLs:  evidenceURLs,
		SearchPubMed:  usePubMed,
		SearchTrials:  useTrials,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if report.Validation.IsValid || showInvalid {
		fmt.Println(report.Answer)
	} else {
		fmt.Println("Answer withheld: it cites sources not present in the evidence.")
		fmt.Println("Re-run with --show-invalid to see it anyway.")
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if !report.Validation.IsValid {
		return fmt.Errorf("%d hallucinated citation(s) detected", report.Validation.InvalidCitations)
	}

	return nil
}
