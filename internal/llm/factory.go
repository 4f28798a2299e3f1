package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a provider based on the configuration. An empty
// provider name means answer generation is disabled and returns nil, nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(config)
	case "anthropic", "claude":
		return NewAnthropicProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}
