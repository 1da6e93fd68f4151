package contextualizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrProviderFailed      = errors.New("context provider failed")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrEmptyChunk          = errors.New("chunk content cannot be empty")
	ErrNoAPIKey            = errors.New("no API key configured")
)

// Request asks for a context situating one chunk within its document
type Request struct {
	ChunkID      string
	ChunkContent string
	Document     string
}

// Usage tracks cumulative token consumption across calls
type Usage struct {
	InputTokens         int
	OutputTokens        int
	CacheReadTokens     int
	CacheCreationTokens int
}

// CacheSavings returns the fraction of input tokens served from the
// provider's prompt cache, in [0, 1].
func (u Usage) CacheSavings() float64 {
	total := u.InputTokens + u.CacheReadTokens + u.CacheCreationTokens
	if total == 0 {
		return 0
	}
	return float64(u.CacheReadTokens) / float64(total)
}

// Generator produces contextual descriptions for chunks
type Generator interface {
	// SituateContext generates a short context for the chunk within its document
	SituateContext(ctx context.Context, req Request) (string, error)

	// Usage returns cumulative token usage for this generator
	Usage() Usage

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the generator
	Close() error
}

// Cache provides in-memory LRU caching of generated contexts keyed by
// content hash, so re-running over an unchanged document skips API calls.
type Cache struct {
	cache *lru.Cache[string, string]
}

// NewCache creates a context cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 1000
	}
	cache, err := lru.New[string, string](maxLen)
	if err != nil {
		cache, _ = lru.New[string, string](1000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a cached context
func (c *Cache) Get(hash string) (string, bool) {
	return c.cache.Get(hash)
}

// Set stores a context with automatic LRU eviction
func (c *Cache) Set(hash, context string) {
	c.cache.Add(hash, context)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash hashes the document and chunk together. A context is only
// reusable when both are unchanged.
func ComputeHash(document, chunkContent string) string {
	h := sha256.New()
	h.Write([]byte(document))
	h.Write([]byte{0})
	h.Write([]byte(chunkContent))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateRequest validates a context request
func ValidateRequest(req Request) error {
	if req.ChunkContent == "" {
		return ErrEmptyChunk
	}
	return nil
}
