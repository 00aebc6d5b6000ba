package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int               `json:"port"`
	LogConfig   logger.LogConfig  `json:"log_config"`
	AI          AIConfig          `json:"ai"`
	VectorStore VectorStoreConfig `json:"vector_store"`
	Chunking    ChunkingConfig    `json:"chunking"`
	Agent       AgentConfig       `json:"agent"`
	Ingest      IngestConfig      `json:"ingest"`
}

type AIConfig struct {
	Provider      string      `json:"provider"`
	Model         string      `json:"model"`
	EmbedProvider string      `json:"embed_provider"`
	EmbedModel    string      `json:"embed_model"`
	EmbedDim      int         `json:"embed_dim"`
	Timeout       int         `json:"timeout"`
	Data          interface{} `json:"data"`
}

type VectorStoreConfig struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection"`
	Metric     string      `json:"metric"`
	Data       interface{} `json:"data"`
}

type ChunkingConfig struct {
	MaxChars int `json:"max_chars"`
	Overlap  int `json:"overlap"`
}

type AgentConfig struct {
	TopK            int `json:"top_k"`
	MaxTurns        int `json:"max_turns"`
	CacheSize       int `json:"cache_size"`
	CacheTTLMinutes int `json:"cache_ttl_minutes"`
}

type SourceConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type IngestConfig struct {
	EmbedBatch  int          `json:"embed_batch"`
	UpsertBatch int          `json:"upsert_batch"`
	Cron        string       `json:"cron"`
	Source      SourceConfig `json:"source"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedProvider == "" {
		cfg.AI.EmbedProvider = cfg.AI.Provider
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 120
	}
	if cfg.VectorStore.Type == "" {
		return nil, fmt.Errorf("vector_store.type is required")
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "meetings"
	}
	if cfg.VectorStore.Metric == "" {
		cfg.VectorStore.Metric = "Cosine"
	}
	if cfg.Chunking.MaxChars == 0 {
		cfg.Chunking.MaxChars = 2000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 250
	}
	if cfg.Chunking.Overlap >= cfg.Chunking.MaxChars {
		return nil, fmt.Errorf("chunking.overlap must be smaller than chunking.max_chars")
	}
	if cfg.Agent.TopK == 0 {
		cfg.Agent.TopK = 10
	}
	if cfg.Agent.MaxTurns == 0 {
		cfg.Agent.MaxTurns = 8
	}
	if cfg.Agent.CacheSize == 0 {
		cfg.Agent.CacheSize = 4096
	}
	if cfg.Agent.CacheTTLMinutes == 0 {
		cfg.Agent.CacheTTLMinutes = 120
	}
	if cfg.Ingest.EmbedBatch == 0 {
		cfg.Ingest.EmbedBatch = 64
	}
	if cfg.Ingest.UpsertBatch == 0 {
		cfg.Ingest.UpsertBatch = 256
	}
	return &cfg, nil
}
