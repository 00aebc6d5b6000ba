package agent

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/ai"
	"github.com/xxxsen/meetagent/internal/ingest"
	"github.com/xxxsen/meetagent/internal/model"
	"github.com/xxxsen/meetagent/internal/vectorstore"
)

const SearchToolName = "meetings.search"

// SearchTool embeds a query and performs a similarity search against the
// meeting collection. It backs both explicit CALL_TOOL invocations and the
// loop's implicit retrieval fallback.
type SearchTool struct {
	embedder    ai.IEmbedder
	store       vectorstore.Store
	collection  string
	defaultTopK int
}

func NewSearchTool(embedder ai.IEmbedder, store vectorstore.Store, collection string, defaultTopK int) *SearchTool {
	if defaultTopK <= 0 {
		defaultTopK = 10
	}
	return &SearchTool{
		embedder:    embedder,
		store:       store,
		collection:  collection,
		defaultTopK: defaultTopK,
	}
}

func (t *SearchTool) Name() string {
	return SearchToolName
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("search tool requires a query argument")
	}
	topK := t.defaultTopK
	if v, ok := args["top_k"].(float64); ok && v > 0 {
		topK = int(v)
	}
	return t.Search(ctx, query, topK)
}

// Search embeds query and returns up to topK hits in descending score order.
func (t *SearchTool) Search(ctx context.Context, query string, topK int) ([]model.RetrievalHit, error) {
	if topK <= 0 {
		topK = t.defaultTopK
	}
	raws, err := t.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(raws) != 1 {
		return nil, fmt.Errorf("embed backend returned %d vectors for 1 input", len(raws))
	}
	dim := t.embedder.Dimension()
	if dim == 0 {
		dim = ingest.InferDimension(ctx, t.store, t.collection, 0)
	}
	vec, ok := ingest.NormalizeVector(raws[0], dim)
	if !ok {
		return nil, fmt.Errorf("query embedding has an unusable shape")
	}
	hits, err := t.store.Search(ctx, t.collection, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search collection %s: %w", t.collection, err)
	}
	logutil.GetLogger(ctx).Debug("retrieval finished",
		zap.String("collection", t.collection),
		zap.Int("top_k", topK),
		zap.Int("hits", len(hits)))
	return hits, nil
}
