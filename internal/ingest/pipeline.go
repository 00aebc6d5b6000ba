package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/ai"
	"github.com/xxxsen/meetagent/internal/chunker"
	"github.com/xxxsen/meetagent/internal/model"
	"github.com/xxxsen/meetagent/internal/vectorstore"
)

type PipelineConfig struct {
	Collection  string
	Metric      string
	EmbedBatch  int
	UpsertBatch int
}

// Pipeline turns documents into dimension-validated points in the vector
// store. Embedding and store failures abort the run; vectors that fail
// normalization are skipped per item.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder ai.IEmbedder
	store    vectorstore.Store
	cfg      PipelineConfig
}

func NewPipeline(ck *chunker.Chunker, embedder ai.IEmbedder, store vectorstore.Store, cfg PipelineConfig) *Pipeline {
	if cfg.EmbedBatch <= 0 {
		cfg.EmbedBatch = 64
	}
	if cfg.UpsertBatch <= 0 {
		cfg.UpsertBatch = 256
	}
	return &Pipeline{chunker: ck, embedder: embedder, store: store, cfg: cfg}
}

func (p *Pipeline) Run(ctx context.Context, docs []model.Document) (model.IngestStats, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", p.cfg.Collection))
	stats := model.IngestStats{}

	var (
		chunks   []model.Chunk
		payloads []map[string]interface{}
		texts    []string
	)
	for _, doc := range docs {
		for _, ch := range p.chunker.ChunkDocument(doc) {
			chunks = append(chunks, ch)
			payloads = append(payloads, chunkPayload(doc, ch))
			texts = append(texts, ch.Text)
		}
	}
	if len(chunks) == 0 {
		logger.Warn("no text to index")
		return stats, nil
	}

	dim := p.embedder.Dimension()
	if dim <= 0 {
		dim = InferDimension(ctx, p.store, p.cfg.Collection, 0)
	}
	if dim <= 0 {
		return stats, fmt.Errorf("cannot determine vector dimension for collection %s", p.cfg.Collection)
	}
	if err := EnsureCollection(ctx, p.store, p.cfg.Collection, dim, p.cfg.Metric); err != nil {
		return stats, fmt.Errorf("ensure collection: %w", err)
	}

	// One embed call per batch; outputs stay aligned with inputs by index.
	raws := make([]interface{}, 0, len(texts))
	for i := 0; i < len(texts); i += p.cfg.EmbedBatch {
		end := i + p.cfg.EmbedBatch
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := p.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return stats, fmt.Errorf("embed batch at %d: %w", i, err)
		}
		if len(batch) != end-i {
			return stats, fmt.Errorf("embedder returned %d vectors for %d inputs", len(batch), end-i)
		}
		raws = append(raws, batch...)
	}

	points := make([]model.Point, 0, len(raws))
	for i, raw := range raws {
		vec, ok := NormalizeVector(raw, dim)
		if !ok {
			stats.Skipped++
			logger.Debug("skipping vector that cannot be normalized", zap.String("chunk_id", chunks[i].ChunkID))
			continue
		}
		points = append(points, model.Point{
			ID:      uuid.NewString(),
			Vector:  vec,
			Payload: payloads[i],
		})
	}
	if len(points) == 0 {
		logger.Warn("no valid points to upsert", zap.Int("skipped", stats.Skipped))
		return stats, nil
	}

	for i := 0; i < len(points); i += p.cfg.UpsertBatch {
		end := i + p.cfg.UpsertBatch
		if end > len(points) {
			end = len(points)
		}
		if err := p.store.Upsert(ctx, p.cfg.Collection, points[i:end]); err != nil {
			return stats, fmt.Errorf("upsert batch at %d: %w", i, err)
		}
		stats.Upserted += end - i
	}
	logger.Info("ingest finished", zap.Int("upserted", stats.Upserted), zap.Int("skipped", stats.Skipped))
	return stats, nil
}

func chunkPayload(doc model.Document, ch model.Chunk) map[string]interface{} {
	return map[string]interface{}{
		"chunk_id":  ch.ChunkID,
		"doc_id":    doc.DocID,
		"source":    doc.Source,
		"origin_id": doc.OriginID,
		"title":     doc.Title,
		"speaker":   doc.Speaker,
		"timestamp": doc.Timestamp,
		"text":      ch.Text,
	}
}
