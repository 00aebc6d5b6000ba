package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/agent"
	"github.com/xxxsen/meetagent/internal/ai"
	"github.com/xxxsen/meetagent/internal/chunker"
	"github.com/xxxsen/meetagent/internal/config"
	"github.com/xxxsen/meetagent/internal/embedcache"
	"github.com/xxxsen/meetagent/internal/handler"
	"github.com/xxxsen/meetagent/internal/ingest"
	"github.com/xxxsen/meetagent/internal/job"
	"github.com/xxxsen/meetagent/internal/middleware"
	"github.com/xxxsen/meetagent/internal/schedule"
	"github.com/xxxsen/meetagent/internal/service"
	"github.com/xxxsen/meetagent/internal/vectorstore"

	_ "github.com/xxxsen/meetagent/internal/vectorstore/memory"
	_ "github.com/xxxsen/meetagent/internal/vectorstore/pgvector"
	_ "github.com/xxxsen/meetagent/internal/vectorstore/qdrant"
)

type app struct {
	cfg      *config.Config
	embedder ai.IEmbedder
	store    vectorstore.Store
	agents   *service.AgentService
	ingests  *service.IngestService
	summary  *service.SummaryService
}

func buildApp(cfg *config.Config) (*app, error) {
	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return nil, fmt.Errorf("init ai provider: %w", err)
	}
	embedProvider, err := ai.NewEmbedProvider(cfg.AI.EmbedProvider, providerArgs)
	if err != nil {
		return nil, fmt.Errorf("init embed provider: %w", err)
	}
	timeout := time.Duration(cfg.AI.Timeout) * time.Second
	generator := ai.NewGenerator(aiProvider, cfg.AI.Model, timeout)
	embedder := ai.NewEmbedder(embedProvider, cfg.AI.EmbedModel, cfg.AI.EmbedDim, timeout)
	embedder = embedcache.WrapLruCacheToEmbedder(embedder,
		cfg.Agent.CacheSize, time.Duration(cfg.Agent.CacheTTLMinutes)*time.Minute)

	store, err := vectorstore.New(cfg.VectorStore.Type, cfg.VectorStore.Data)
	if err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	ck, err := chunker.New(cfg.Chunking.MaxChars, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}
	pipeline := ingest.NewPipeline(ck, embedder, store, ingest.PipelineConfig{
		Collection:  cfg.VectorStore.Collection,
		Metric:      cfg.VectorStore.Metric,
		EmbedBatch:  cfg.Ingest.EmbedBatch,
		UpsertBatch: cfg.Ingest.UpsertBatch,
	})
	search := agent.NewSearchTool(embedder, store, cfg.VectorStore.Collection, cfg.Agent.TopK)
	loop := agent.New(generator, search, agent.NewRegistry(), cfg.Agent.TopK, cfg.Agent.MaxTurns)

	return &app{
		cfg:      cfg,
		embedder: embedder,
		store:    store,
		agents:   service.NewAgentService(loop, search),
		ingests:  service.NewIngestService(pipeline, cfg.Ingest.Source),
		summary:  service.NewSummaryService(generator),
	}, nil
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "meetagent",
		Short: "meeting transcript retrieval agent",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	loadApp := func() (*app, error) {
		if configPath == "" {
			return nil, fmt.Errorf("--config is required")
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger.Init(
			cfg.LogConfig.File,
			cfg.LogConfig.Level,
			int(cfg.LogConfig.FileCount),
			int(cfg.LogConfig.FileSize),
			int(cfg.LogConfig.KeepDays),
			cfg.LogConfig.Console,
		)
		logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
		return buildApp(cfg)
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the api server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ap, err := loadApp()
			if err != nil {
				return err
			}
			return runServer(ap)
		},
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "run one ingestion pass over the configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			ap, err := loadApp()
			if err != nil {
				return err
			}
			stats, err := ap.ingests.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("upserted=%d skipped=%d\n", stats.Upserted, stats.Skipped)
			return nil
		},
	}

	var searchTopK int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "run a similarity search against the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ap, err := loadApp()
			if err != nil {
				return err
			}
			hits, err := ap.agents.Search(cmd.Context(), args[0], searchTopK)
			if err != nil {
				return err
			}
			for _, h := range hits {
				text, _ := h.Payload["text"].(string)
				fmt.Printf("%.4f\t%s\t%s\n", h.Score, h.ID, text)
			}
			return nil
		},
	}
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 0, "number of hits to return")

	var collectionDim int
	createCollectionCmd := &cobra.Command{
		Use:   "create-collection",
		Short: "create the configured collection if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ap, err := loadApp()
			if err != nil {
				return err
			}
			dim := collectionDim
			if dim <= 0 {
				dim = ap.cfg.AI.EmbedDim
			}
			if dim <= 0 {
				return fmt.Errorf("vector dimension is required, set --dim or ai.embed_dim")
			}
			return ingest.EnsureCollection(cmd.Context(), ap.store,
				ap.cfg.VectorStore.Collection, dim, ap.cfg.VectorStore.Metric)
		},
	}
	createCollectionCmd.Flags().IntVar(&collectionDim, "dim", 0, "vector dimension")

	rootCmd.AddCommand(runCmd, ingestCmd, searchCmd, createCollectionCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(ap *app) error {
	cfg := ap.cfg
	logutil.GetLogger(context.Background()).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("vector_store", cfg.VectorStore.Type),
		zap.String("collection", cfg.VectorStore.Collection))

	deps := handler.RouterDeps{
		Chat:    handler.NewChatHandler(ap.agents),
		Ingest:  handler.NewIngestHandler(ap.ingests),
		Summary: handler.NewSummaryHandler(ap.summary),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Ingest.Cron != "" {
		scheduler := schedule.NewCronScheduler()
		if err := scheduler.AddJob(job.NewIngestJob(ap.ingests), cfg.Ingest.Cron); err != nil {
			return err
		}
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
