package model

import "time"

// Config holds the full citegate configuration
type Config struct {
	HTTP        HTTPConfig        `json:"http" yaml:"http"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Search      SearchConfig      `json:"search" yaml:"search"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Validation  ValidationConfig  `json:"validation" yaml:"validation"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// HTTPConfig configures outbound HTTP (evidence fetches, search clients)
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent    string        `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	InsecureTLS  bool          `json:"insecure_tls" yaml:"insecure_tls"`
	HTTPProxy    string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
	NoProxy      string        `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the layered response cache
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir" yaml:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// SearchConfig configures the literature-search clients
type SearchConfig struct {
	PubMedBaseURL         string  `json:"pubmed_base_url" yaml:"pubmed_base_url"`
	ClinicalTrialsBaseURL string  `json:"clinicaltrials_base_url" yaml:"clinicaltrials_base_url"`
	MaxResults            int     `json:"max_results" yaml:"max_results"`
	RequestsPerSecond     float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst                 int     `json:"burst" yaml:"burst"`
}

// LLMConfig configures the optional answer-generating provider
type LLMConfig struct {
	Provider  string `json:"provider" yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model     string `json:"model" yaml:"model"`
	APIKey    string `json:"-" yaml:"-"` // Never serialized; environment only
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout   int    `json:"timeout" yaml:"timeout"` // Seconds
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
}

// ValidationConfig configures the citation verification engine
type ValidationConfig struct {
	// Exemptions is the vocabulary of lowercase substrings that mark a
	// reference as an authoritative non-indexed source (FDA databases,
	// guideline bodies). Empty means use the built-in defaults.
	Exemptions []string `json:"exemptions,omitempty" yaml:"exemptions,omitempty"`
}

// ConcurrencyConfig configures worker counts for batch runs
type ConcurrencyConfig struct {
	BatchWorkers int `json:"batch_workers" yaml:"batch_workers"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Citegate/0.1 (+https://github.com/verimed/citegate)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Search: SearchConfig{
			PubMedBaseURL:         "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			ClinicalTrialsBaseURL: "https://clinicaltrials.gov/api/v2",
			MaxResults:            10,
			RequestsPerSecond:     3,
			Burst:                 3,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   60,
			MaxTokens: 1500,
		},
		Validation: ValidationConfig{
			Exemptions: nil, // citation.DefaultExemptions
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
