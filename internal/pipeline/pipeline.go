package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verimed/citegate/internal/cache"
	"github.com/verimed/citegate/internal/citation"
	"github.com/verimed/citegate/internal/heuristics"
	"github.com/verimed/citegate/internal/llm"
	"github.com/verimed/citegate/internal/model"
	"github.com/verimed/citegate/internal/search"
)

// Pipeline orchestrates a complete gate run: assemble evidence, optionally
// generate an answer, verify its citations, and build a report.
type Pipeline struct {
	fetcher   *Fetcher
	validator *citation.Validator
	analyzer  *heuristics.Analyzer
	renderer  *Renderer
	provider  llm.Provider // Optional answer generator (nil if disabled)
	pubmed    *search.PubMedClient
	trials    *search.ClinicalTrialsClient
	store     *cache.StatsCache
	config    *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		llmConfig := llm.ConfigFromModel(cfg.LLM, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		p, err := llm.NewProvider(llmConfig)
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			provider = p
		}
	}

	var store *cache.StatsCache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewStatsCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
		} else {
			store = cache.NewStatsCache(cache.NewMemoryCache(cfg.Cache.MemoryTTL, 5*time.Minute))
		}
	}

	var searchCache cache.Cache
	if store != nil {
		searchCache = store
	}

	searchClient := search.NewClient(search.Options{
		Timeout:           cfg.HTTP.Timeout,
		UserAgent:         cfg.HTTP.UserAgent,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		RequestsPerSecond: cfg.Search.RequestsPerSecond,
		Burst:             cfg.Search.Burst,
		Cache:             searchCache,
		CacheTTL:          cfg.Cache.MemoryTTL,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		NoProxy:           cfg.HTTP.NoProxy,
	})

	return &Pipeline{
		fetcher:   NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, true, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		validator: citation.NewValidator(cfg.Validation.Exemptions),
		analyzer:  heuristics.NewAnalyzer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		provider:  provider,
		pubmed:    search.NewPubMedClient(searchClient, cfg.Search.PubMedBaseURL, cfg.Search.MaxResults),
		trials:    search.NewClinicalTrialsClient(searchClient, cfg.Search.ClinicalTrialsBaseURL, cfg.Search.MaxResults),
		store:     store,
		config:    cfg,
	}
}

// GateRequest describes one gate run
type GateRequest struct {
	Question      string   // The question being answered (required for searches and ask mode)
	Response      string   // Pre-existing response to check; empty means generate via the provider
	EvidenceFiles []string // Local evidence documents
	EvidenceURLs  []string // Remote evidence documents
	EvidenceStdin string   // Evidence piped in on stdin, already read by the caller
	SearchPubMed  bool     // Add PubMed search results for Question to the evidence
	SearchTrials  bool     // Add ClinicalTrials.gov search results for Question to the evidence
	Subject       string   // Short label for the report; derived when empty
}

// Gate runs the complete pipeline and returns the report
func (p *Pipeline) Gate(ctx context.Context, req GateRequest) (*model.Report, error) {
	evidence, sources, err := p.gatherEvidence(ctx, req)
	if err != nil {
		return nil, err
	}

	response := req.Response
	var llmMeta *model.LLMMeta
	if response == "" {
		if p.provider == nil {
			return nil, fmt.Errorf("no response to check and no LLM provider configured")
		}
		if req.Question == "" {
			return nil, fmt.Errorf("a question is required to generate an answer")
		}
		answer, err := p.provider.Answer(ctx, llm.AnswerRequest{
			Question: req.Question,
			Evidence: evidence,
		})
		if err != nil {
			return nil, fmt.Errorf("generate answer: %w", err)
		}
		response = answer.Answer
		llmMeta = &model.LLMMeta{
			Provider:   p.provider.Name(),
			Model:      answer.Model,
			TokensUsed: answer.TokensUsed,
		}
	}

	validation := p.validator.Validate(response, evidence)
	flags := p.analyzer.Analyze(response)

	subject := req.Subject
	if subject == "" {
		subject = deriveSubject(req)
	}

	return &model.Report{
		Subject:         subject,
		Question:        req.Question,
		Answer:          response,
		GeneratedAt:     time.Now().UTC(),
		EvidenceSources: sources,
		EvidenceChars:   len(evidence),
		Validation:      validation,
		Flags:           flags,
		LLM:             llmMeta,
	}, nil
}

// CheckFiles gates a response file against local evidence files. It
// satisfies the worker.Checker interface used by batch runs.
func (p *Pipeline) CheckFiles(ctx context.Context, responsePath string, evidencePaths []string) (*model.Report, error) {
	response, err := os.ReadFile(responsePath)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return p.Gate(ctx, GateRequest{
		Response:      string(response),
		EvidenceFiles: evidencePaths,
		Subject:       filepath.Base(responsePath),
	})
}

// gatherEvidence assembles the evidence text from all configured sources
func (p *Pipeline) gatherEvidence(ctx context.Context, req GateRequest) (string, []model.EvidenceSource, error) {
	var blocks []string
	var sources []model.EvidenceSource

	add := func(kind model.SourceKind, location, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		blocks = append(blocks, text)
		sources = append(sources, model.EvidenceSource{Kind: kind, Location: location, Chars: len(text)})
	}

	add(model.SourceStdin, "stdin", req.EvidenceStdin)

	for _, path := range req.EvidenceFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("read evidence file %s: %w", path, err)
		}
		add(model.SourceFile, path, string(data))
	}

	for _, rawURL := range req.EvidenceURLs {
		result, err := p.fetcher.FetchWithRetry(ctx, rawURL)
		if err != nil {
			return "", nil, fmt.Errorf("fetch evidence URL %s: %w", rawURL, err)
		}
		add(model.SourceURL, result.FinalURL, result.Text)
	}

	if req.SearchPubMed && req.Question != "" {
		results, err := p.pubmed.Search(ctx, req.Question)
		if err != nil {
			return "", nil, fmt.Errorf("pubmed search: %w", err)
		}
		add(model.SourcePubMed, req.Question, search.EvidenceBlock(results))
	}

	if req.SearchTrials && req.Question != "" {
		results, err := p.trials.Search(ctx, req.Question)
		if err != nil {
			return "", nil, fmt.Errorf("clinicaltrials search: %w", err)
		}
		add(model.SourceClinicalTrials, req.Question, search.TrialEvidenceBlock(results))
	}

	return strings.Join(blocks, "\n\n"), sources, nil
}

// CacheStats returns cache hit/miss counters for the run, or zero stats
// when caching is disabled
func (p *Pipeline) CacheStats() cache.Stats {
	if p.store == nil {
		return cache.Stats{}
	}
	return p.store.Stats()
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// deriveSubject produces a short report label from the request
func deriveSubject(req GateRequest) string {
	if req.Question != "" {
		if len(req.Question) > 60 {
			return req.Question[:60] + "..."
		}
		return req.Question
	}
	if len(req.EvidenceFiles) > 0 {
		return filepath.Base(req.EvidenceFiles[0])
	}
	return "citation check"
}
