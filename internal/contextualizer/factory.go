package contextualizer

import (
	"fmt"
	"os"
	"strings"
)

// Config holds generator configuration
type Config struct {
	Provider  string
	APIKey    string
	CacheSize int
}

// NewFromEnv creates a generator based on environment variables
// Priority:
// 1. CHUNKLINT_CONTEXT_PROVIDER (anthropic, openai, dry-run)
// 2. Check for API keys: ANTHROPIC_API_KEY, OPENAI_API_KEY
// 3. Default to dry-run if no API keys found
func NewFromEnv() (Generator, error) {
	provider := os.Getenv(EnvProvider)
	anthropicKey := os.Getenv(EnvAnthropicAPIKey)
	openaiKey := os.Getenv(EnvOpenAIAPIKey)

	cache := NewCache(1000)

	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderAnthropic:
			return NewAnthropicProvider(anthropicKey, cache)
		case ProviderOpenAI:
			return NewOpenAIProvider(openaiKey, cache)
		case ProviderDryRun:
			return NewDryRunProvider()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
		}
	}

	if anthropicKey != "" {
		return NewAnthropicProvider(anthropicKey, cache)
	}
	if openaiKey != "" {
		return NewOpenAIProvider(openaiKey, cache)
	}

	return NewDryRunProvider()
}

// New creates a generator with explicit configuration
func New(cfg Config) (Generator, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIKey, cache)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderDryRun:
		return NewDryRunProvider()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider that NewFromEnv would select
func DetectProvider() string {
	provider := os.Getenv(EnvProvider)
	if provider != "" {
		return strings.ToLower(provider)
	}

	if os.Getenv(EnvAnthropicAPIKey) != "" {
		return ProviderAnthropic
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}

	return ProviderDryRun
}
