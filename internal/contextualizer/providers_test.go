package contextualizer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicServer(t *testing.T, calls *atomic.Int32, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, DefaultAnthropicModel, req["model"])

		msgs := req["messages"].([]interface{})
		require.Len(t, msgs, 1)
		content := msgs[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 2)

		docBlock := content[0].(map[string]interface{})
		assert.Contains(t, docBlock["text"], "<document>")
		require.NotNil(t, docBlock["cache_control"], "document block must be cacheable")

		chunkBlock := content[1].(map[string]interface{})
		assert.Contains(t, chunkBlock["text"], "<chunk>")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"content": [{"type": "text", "text": %q}],
			"usage": {"input_tokens": 100, "output_tokens": 20, "cache_read_input_tokens": 80, "cache_creation_input_tokens": 10}
		}`, text)
	}))
}

func TestAnthropicProviderSituateContext(t *testing.T) {
	var calls atomic.Int32
	server := newAnthropicServer(t, &calls, "This chunk covers Python skills.")
	defer server.Close()

	provider, err := NewAnthropicProvider("test-key", nil)
	require.NoError(t, err)
	provider.baseURL = server.URL
	defer provider.Close()

	text, err := provider.SituateContext(context.Background(), Request{
		ChunkID:      "skill:python",
		ChunkContent: "print('hi')",
		Document:     "# Doc\nprint('hi')",
	})
	require.NoError(t, err)
	assert.Equal(t, "This chunk covers Python skills.", text)
	assert.Equal(t, int32(1), calls.Load())

	usage := provider.Usage()
	assert.Equal(t, 100, usage.InputTokens)
	assert.Equal(t, 20, usage.OutputTokens)
	assert.Equal(t, 80, usage.CacheReadTokens)
	assert.Equal(t, 10, usage.CacheCreationTokens)
}

func TestAnthropicProviderCacheSkipsAPI(t *testing.T) {
	var calls atomic.Int32
	server := newAnthropicServer(t, &calls, "cached context")
	defer server.Close()

	provider, err := NewAnthropicProvider("test-key", NewCache(10))
	require.NoError(t, err)
	provider.baseURL = server.URL
	defer provider.Close()

	req := Request{ChunkID: "a:b", ChunkContent: "body", Document: "doc body"}

	first, err := provider.SituateContext(context.Background(), req)
	require.NoError(t, err)
	second, err := provider.SituateContext(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second call should hit the cache")
}

func TestAnthropicProviderRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content": [{"type": "text", "text": "eventually"}], "usage": {"input_tokens": 1, "output_tokens": 1}}`)
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider("test-key", nil)
	require.NoError(t, err)
	provider.baseURL = server.URL
	defer provider.Close()

	text, err := provider.SituateContext(context.Background(), Request{ChunkContent: "body", Document: "doc"})
	require.NoError(t, err)
	assert.Equal(t, "eventually", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnthropicProviderGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider("test-key", nil)
	require.NoError(t, err)
	provider.baseURL = server.URL
	defer provider.Close()

	_, err = provider.SituateContext(context.Background(), Request{ChunkContent: "body", Document: "doc"})
	assert.ErrorIs(t, err, ErrProviderFailed)
}

func TestAnthropicProviderRequiresKey(t *testing.T) {
	t.Setenv(EnvAnthropicAPIKey, "")
	_, err := NewAnthropicProvider("", nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestOpenAIProviderSituateContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"choices": [{"message": {"content": "A Go concurrency chunk."}}],
			"usage": {"prompt_tokens": 50, "completion_tokens": 10}
		}`)
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider("test-key", nil)
	require.NoError(t, err)
	provider.baseURL = server.URL
	defer provider.Close()

	text, err := provider.SituateContext(context.Background(), Request{ChunkContent: "go func()", Document: "doc"})
	require.NoError(t, err)
	assert.Equal(t, "A Go concurrency chunk.", text)

	usage := provider.Usage()
	assert.Equal(t, 50, usage.InputTokens)
	assert.Equal(t, 10, usage.OutputTokens)
}

func TestDryRunProvider(t *testing.T) {
	provider, err := NewDryRunProvider()
	require.NoError(t, err)

	text, err := provider.SituateContext(context.Background(), Request{
		ChunkID:      "skill:python",
		ChunkContent: "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "[DRY RUN] Context would be generated for: skill:python", text)
	assert.Equal(t, Usage{}, provider.Usage())
}

func TestValidateRequest(t *testing.T) {
	assert.ErrorIs(t, ValidateRequest(Request{}), ErrEmptyChunk)
	assert.NoError(t, ValidateRequest(Request{ChunkContent: "body"}))
}

func TestUsageCacheSavings(t *testing.T) {
	assert.Zero(t, Usage{}.CacheSavings())

	u := Usage{InputTokens: 20, CacheReadTokens: 60, CacheCreationTokens: 20}
	assert.InDelta(t, 0.6, u.CacheSavings(), 0.001)
}

func TestNewFromEnvSelection(t *testing.T) {
	t.Run("explicit dry-run", func(t *testing.T) {
		t.Setenv(EnvProvider, "dry-run")
		gen, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ProviderDryRun, gen.Provider())
	})

	t.Run("anthropic key detected", func(t *testing.T) {
		t.Setenv(EnvProvider, "")
		t.Setenv(EnvAnthropicAPIKey, "key")
		t.Setenv(EnvOpenAIAPIKey, "")
		gen, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ProviderAnthropic, gen.Provider())
	})

	t.Run("openai key detected", func(t *testing.T) {
		t.Setenv(EnvProvider, "")
		t.Setenv(EnvAnthropicAPIKey, "")
		t.Setenv(EnvOpenAIAPIKey, "key")
		gen, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, gen.Provider())
	})

	t.Run("no keys falls back to dry-run", func(t *testing.T) {
		t.Setenv(EnvProvider, "")
		t.Setenv(EnvAnthropicAPIKey, "")
		t.Setenv(EnvOpenAIAPIKey, "")
		gen, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ProviderDryRun, gen.Provider())
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv(EnvProvider, "llamacpp")
		_, err := NewFromEnv()
		assert.ErrorIs(t, err, ErrUnsupportedProvider)
	})
}

func TestDetectProvider(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvAnthropicAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	assert.Equal(t, ProviderDryRun, DetectProvider())

	t.Setenv(EnvAnthropicAPIKey, "key")
	assert.Equal(t, ProviderAnthropic, DetectProvider())

	t.Setenv(EnvProvider, "OpenAI")
	assert.Equal(t, ProviderOpenAI, DetectProvider())
}
