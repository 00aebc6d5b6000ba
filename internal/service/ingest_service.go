package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/config"
	"github.com/xxxsen/meetagent/internal/ingest"
	"github.com/xxxsen/meetagent/internal/loader"
	"github.com/xxxsen/meetagent/internal/model"
)

// IngestService runs the full load-chunk-embed-upsert pipeline over the
// configured document source.
type IngestService struct {
	pipeline *ingest.Pipeline
	source   config.SourceConfig
}

func NewIngestService(pipeline *ingest.Pipeline, source config.SourceConfig) *IngestService {
	return &IngestService{pipeline: pipeline, source: source}
}

// Run ingests the configured source.
func (s *IngestService) Run(ctx context.Context) (model.IngestStats, error) {
	return s.RunSource(ctx, s.source)
}

// RunSource ingests an explicitly named source, used by the CLI.
func (s *IngestService) RunSource(ctx context.Context, src config.SourceConfig) (model.IngestStats, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("source", src.Type))
	ld, err := loader.New(src.Type, src.Data)
	if err != nil {
		return model.IngestStats{}, err
	}
	start := time.Now()
	docs, err := loader.Collect(ctx, ld)
	if err != nil {
		logger.Error("load documents failed", zap.Error(err))
		return model.IngestStats{}, err
	}
	stats, err := s.pipeline.Run(ctx, docs)
	if err != nil {
		logger.Error("ingest run failed", zap.Error(err))
		return stats, err
	}
	logger.Info("ingest run finished",
		zap.Int("documents", len(docs)),
		zap.Int("upserted", stats.Upserted),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("cost", time.Since(start)))
	return stats, nil
}
