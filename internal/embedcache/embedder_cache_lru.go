package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"

	"github.com/xxxsen/meetagent/internal/ai"
)

// WrapLruCacheToEmbedder memoizes per-text embedding results in an expiring
// LRU. Multi-text calls are split into cached and missing entries; only the
// misses reach the backend, and outputs are reassembled in input order.
func WrapLruCacheToEmbedder(e ai.IEmbedder, size int, ttl time.Duration) ai.IEmbedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	return &lruEmbedder{
		next:  e,
		cache: expirable.NewLRU[string, interface{}](size, nil, ttl),
	}
}

type lruEmbedder struct {
	next  ai.IEmbedder
	cache *expirable.LRU[string, interface{}]
}

func (l *lruEmbedder) Embed(ctx context.Context, texts []string) ([]interface{}, error) {
	if l == nil || l.next == nil {
		return nil, nil
	}
	out := make([]interface{}, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := l.cache.Get(l.cacheKey(text)); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		logutil.GetLogger(ctx).Debug("embedding cache hit (lru)")
		return out, nil
	}
	res, err := l.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, idx := range missingIdx {
		if j >= len(res) {
			break
		}
		out[idx] = res[j]
		l.cache.Add(l.cacheKey(missing[j]), res[j])
	}
	return out, nil
}

func (l *lruEmbedder) ModelName() string {
	if l == nil || l.next == nil {
		return ""
	}
	return l.next.ModelName()
}

func (l *lruEmbedder) Dimension() int {
	if l == nil || l.next == nil {
		return 0
	}
	return l.next.Dimension()
}

func (l *lruEmbedder) cacheKey(text string) string {
	modelName := strings.TrimSpace(l.next.ModelName())
	if modelName == "" {
		modelName = "unknown"
	}
	hash := sha256.Sum256([]byte(text))
	return "embed:" + modelName + ":" + hex.EncodeToString(hash[:])
}
