package translator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	DefaultCacheTTL     = 15 * time.Minute
	DefaultCacheMaxCost = 1e7
)

// Cached remembers successful replies so a repeated chunk is not sent twice.
// Replies are scoped to the credential that paid for them: a request only hits
// the cache if the same key already went through the remote API.
type Cached struct {
	next  Completer
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewCached(next Completer, ttl time.Duration, maxCost int64) (*Cached, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxCost <= 0 {
		maxCost = DefaultCacheMaxCost
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &Cached{next: next, cache: cache, ttl: ttl}, nil
}

func (c *Cached) Complete(ctx context.Context, req Request) (string, error) {
	key := generateCacheKey(req)

	if cached, found := c.cache.Get(key); found {
		return cached.(string), nil
	}

	text, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	c.cache.SetWithTTL(key, text, int64(len(text)), c.ttl)
	return text, nil
}

func (c *Cached) Close() {
	c.cache.Close()
}

func generateCacheKey(req Request) string {
	credential := sha256.Sum256([]byte(req.Credential))
	hash := sha256.Sum256([]byte(fmt.Sprintf("%x:%s:%d:%s:%s", credential, req.Model, maxTokens(req), req.System, req.Prompt)))
	return hex.EncodeToString(hash[:])
}
