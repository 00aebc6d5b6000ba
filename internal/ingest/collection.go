package ingest

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/vectorstore"
)

// EnsureCollection makes sure the named collection exists before any write.
// Calling it on an existing collection is a no-op.
func EnsureCollection(ctx context.Context, store vectorstore.Store, name string, dim int, metric string) error {
	return store.EnsureCollection(ctx, name, dim, metric)
}

// InferDimension reads the configured vector size of an existing collection.
// On any failure it returns the fallback unchanged; it never fails.
func InferDimension(ctx context.Context, store vectorstore.Store, name string, fallback int) int {
	dim, err := store.CollectionDim(ctx, name)
	if err != nil || dim <= 0 {
		logutil.GetLogger(ctx).Debug("cannot infer collection dimension, using fallback",
			zap.String("collection", name), zap.Int("fallback", fallback), zap.Error(err))
		return fallback
	}
	return dim
}
