package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"ai": {"provider": "ollama", "model": "llama3", "embed_model": "nomic-embed-text"},
		"vector_store": {"type": "memory"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "ollama", cfg.AI.EmbedProvider)
	require.Equal(t, "meetings", cfg.VectorStore.Collection)
	require.Equal(t, "Cosine", cfg.VectorStore.Metric)
	require.Equal(t, 2000, cfg.Chunking.MaxChars)
	require.Equal(t, 250, cfg.Chunking.Overlap)
	require.Equal(t, 10, cfg.Agent.TopK)
	require.Equal(t, 8, cfg.Agent.MaxTurns)
	require.Equal(t, 64, cfg.Ingest.EmbedBatch)
	require.Equal(t, 256, cfg.Ingest.UpsertBatch)
}

func TestLoad_RejectsMissingRequired(t *testing.T) {
	path := writeConfig(t, `{"ai": {"model": "llama3", "embed_model": "x"}, "vector_store": {"type": "memory"}}`)
	_, err := Load(path)
	require.Error(t, err)

	path = writeConfig(t, `{"ai": {"provider": "ollama", "model": "llama3"}, "vector_store": {"type": "memory"}}`)
	_, err = Load(path)
	require.Error(t, err)

	path = writeConfig(t, `{"ai": {"provider": "ollama", "model": "llama3", "embed_model": "x"}}`)
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsBadChunking(t *testing.T) {
	path := writeConfig(t, `{
		"ai": {"provider": "ollama", "model": "llama3", "embed_model": "x"},
		"vector_store": {"type": "memory"},
		"chunking": {"max_chars": 100, "overlap": 100}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
