package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/meetagent/internal/model"
)

// Store is a similarity index holding vectors with payload metadata.
// Implementations must return search hits in descending score order.
type Store interface {
	// EnsureCollection creates the named collection if missing; when it
	// already exists this is a no-op.
	EnsureCollection(ctx context.Context, name string, dim int, metric string) error
	// CollectionDim reports the configured vector size of a collection.
	CollectionDim(ctx context.Context, name string) (int, error)
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]model.RetrievalHit, error)
	Upsert(ctx context.Context, collection string, points []model.Point) error
}

type Factory func(args interface{}) (Store, error)

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

func New(storeType string, args interface{}) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(storeType))
	if key == "" {
		return nil, fmt.Errorf("vector_store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported vector store type: %s", storeType)
	}
	return factory(args)
}

func DecodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		args = map[string]interface{}{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode vector store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode vector store config: %w", err)
	}
	return nil
}
