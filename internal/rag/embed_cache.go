package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jengzang/safeguard-backend/internal/llm"
)

// QueryEmbedder embeds single queries, remembering recent ones
type QueryEmbedder struct {
	next  llm.Embedder
	cache *cache.Cache
}

// NewQueryEmbedder wraps next with a cache of the given TTL
func NewQueryEmbedder(next llm.Embedder, ttl time.Duration) *QueryEmbedder {
	return &QueryEmbedder{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// EmbedQuery returns the embedding of text
func (q *QueryEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	key := hex.EncodeToString(sum[:])

	if cached, found := q.cache.Get(key); found {
		return cached.([]float32), nil
	}

	vecs, err := q.next.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vecs))
	}

	q.cache.Set(key, vecs[0], cache.DefaultExpiration)
	return vecs[0], nil
}
