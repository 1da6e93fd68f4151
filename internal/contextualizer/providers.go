package contextualizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// Provider configuration
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderDryRun    = "dry-run"

	// Default models
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	DefaultOpenAIModel    = "gpt-4o-mini"

	// Environment variables
	EnvProvider        = "CHUNKLINT_CONTEXT_PROVIDER"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"

	// Response limits
	MaxResponseTokens = 200

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 100
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0

	anthropicVersion     = "2023-06-01"
	anthropicCachingBeta = "prompt-caching-2024-07-31"

	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultOpenAIBaseURL    = "https://api.openai.com"
)

// Prompt templates for contextual retrieval. The document block is sent
// first so the provider's prompt cache can reuse it across chunks.
const (
	documentPromptTemplate = "<document>\n%s\n</document>\n"

	chunkPromptTemplate = "Here is the chunk we want to situate within the whole document\n" +
		"<chunk>\n%s\n</chunk>\n" +
		"Please give a short succinct context to situate this chunk within the overall document " +
		"for the purposes of improving search retrieval of the chunk. " +
		"Answer only with the succinct context and nothing else.\n"
)

// AnthropicProvider implements Generator using the Anthropic Messages API
// with prompt caching on the document block
type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      *Cache

	mu    sync.Mutex
	usage Usage
}

// NewAnthropicProvider creates an Anthropic context generator
func NewAnthropicProvider(apiKey string, cache *Cache) (*AnthropicProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAnthropicAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoAPIKey, EnvAnthropicAPIKey)
	}

	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   DefaultAnthropicModel,
		baseURL: defaultAnthropicBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache: cache,
	}, nil
}

func (a *AnthropicProvider) SituateContext(ctx context.Context, req Request) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}

	hash := ComputeHash(req.Document, req.ChunkContent)
	if a.cache != nil {
		if text, ok := a.cache.Get(hash); ok {
			return text, nil
		}
	}

	config := DefaultRetryConfig()
	text, err := retryWithBackoff(ctx, config, func() (string, error) {
		return a.callAPI(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if a.cache != nil {
		a.cache.Set(hash, text)
	}

	return text, nil
}

func (a *AnthropicProvider) callAPI(ctx context.Context, req Request) (string, error) {
	reqBody := map[string]interface{}{
		"model":       a.model,
		"max_tokens":  MaxResponseTokens,
		"temperature": 0.0,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type":          "text",
						"text":          fmt.Sprintf(documentPromptTemplate, req.Document),
						"cache_control": map[string]string{"type": "ephemeral"},
					},
					{
						"type": "text",
						"text": fmt.Sprintf(chunkPromptTemplate, req.ChunkContent),
					},
				},
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("anthropic-beta", anthropicCachingBeta)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens         int `json:"input_tokens"`
			OutputTokens        int `json:"output_tokens"`
			CacheReadTokens     int `json:"cache_read_input_tokens"`
			CacheCreationTokens int `json:"cache_creation_input_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	a.mu.Lock()
	a.usage.InputTokens += apiResp.Usage.InputTokens
	a.usage.OutputTokens += apiResp.Usage.OutputTokens
	a.usage.CacheReadTokens += apiResp.Usage.CacheReadTokens
	a.usage.CacheCreationTokens += apiResp.Usage.CacheCreationTokens
	a.mu.Unlock()

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("%w: empty response content", ErrProviderFailed)
	}

	return apiResp.Content[0].Text, nil
}

func (a *AnthropicProvider) Usage() Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage
}

func (a *AnthropicProvider) Provider() string {
	return ProviderAnthropic
}

func (a *AnthropicProvider) Model() string {
	return a.model
}

func (a *AnthropicProvider) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// OpenAIProvider implements Generator using an OpenAI-compatible chat
// completions API
type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      *Cache

	mu    sync.Mutex
	usage Usage
}

// NewOpenAIProvider creates an OpenAI context generator
func NewOpenAIProvider(apiKey string, cache *Cache) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoAPIKey, EnvOpenAIAPIKey)
	}

	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   DefaultOpenAIModel,
		baseURL: defaultOpenAIBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache: cache,
	}, nil
}

func (o *OpenAIProvider) SituateContext(ctx context.Context, req Request) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}

	hash := ComputeHash(req.Document, req.ChunkContent)
	if o.cache != nil {
		if text, ok := o.cache.Get(hash); ok {
			return text, nil
		}
	}

	config := DefaultRetryConfig()
	text, err := retryWithBackoff(ctx, config, func() (string, error) {
		return o.callAPI(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	if o.cache != nil {
		o.cache.Set(hash, text)
	}

	return text, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, req Request) (string, error) {
	reqBody := map[string]interface{}{
		"model":       o.model,
		"max_tokens":  MaxResponseTokens,
		"temperature": 0.0,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": fmt.Sprintf(documentPromptTemplate, req.Document),
			},
			{
				"role":    "user",
				"content": fmt.Sprintf(chunkPromptTemplate, req.ChunkContent),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	o.mu.Lock()
	o.usage.InputTokens += apiResp.Usage.PromptTokens
	o.usage.OutputTokens += apiResp.Usage.CompletionTokens
	o.mu.Unlock()

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrProviderFailed)
	}

	return apiResp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Usage() Usage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.usage
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// DryRunProvider makes no API calls and emits placeholder contexts, for
// previewing which chunks would be rewritten
type DryRunProvider struct{}

// NewDryRunProvider creates a generator that never calls an API
func NewDryRunProvider() (*DryRunProvider, error) {
	return &DryRunProvider{}, nil
}

func (d *DryRunProvider) SituateContext(ctx context.Context, req Request) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}
	return fmt.Sprintf("[DRY RUN] Context would be generated for: %s", req.ChunkID), nil
}

func (d *DryRunProvider) Usage() Usage {
	return Usage{}
}

func (d *DryRunProvider) Provider() string {
	return ProviderDryRun
}

func (d *DryRunProvider) Model() string {
	return "none"
}

func (d *DryRunProvider) Close() error {
	return nil
}
