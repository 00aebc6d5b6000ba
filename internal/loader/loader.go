package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/meetagent/internal/model"
)

// Loader produces a finite, restartable stream of documents. Implementations
// call fn once per document and stop on the first error fn returns.
type Loader interface {
	Load(ctx context.Context, fn func(doc model.Document) error) error
}

type Factory func(args interface{}) (Loader, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(sourceType string, args interface{}) (Loader, error) {
	key := strings.ToLower(strings.TrimSpace(sourceType))
	if key == "" {
		return nil, fmt.Errorf("ingest.source.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported document source: %s", sourceType)
	}
	return factory(args)
}

// Collect drains a loader into memory. Convenience for callers that batch.
func Collect(ctx context.Context, l Loader) ([]model.Document, error) {
	var docs []model.Document
	err := l.Load(ctx, func(doc model.Document) error {
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("source config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode source config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode source config: %w", err)
	}
	return nil
}
