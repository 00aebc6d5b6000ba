package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/meetagent/internal/agent"
	"github.com/xxxsen/meetagent/internal/chunker"
	"github.com/xxxsen/meetagent/internal/config"
	"github.com/xxxsen/meetagent/internal/ingest"
	"github.com/xxxsen/meetagent/internal/service"
	"github.com/xxxsen/meetagent/internal/vectorstore"

	_ "github.com/xxxsen/meetagent/internal/vectorstore/memory"
)

type fixedEmbedder struct{}

func (f *fixedEmbedder) Embed(ctx context.Context, texts []string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(texts))
	for range texts {
		out = append(out, []float64{1, 0, 0})
	}
	return out, nil
}

func (f *fixedEmbedder) ModelName() string { return "fixed" }
func (f *fixedEmbedder) Dimension() int    { return 3 }

type cannedLLM struct {
	reply string
}

func (c *cannedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return c.reply, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "budget.txt"), []byte("the budget for the launch was approved"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roadmap.txt"), []byte("database migration is planned for next sprint"), 0o644))

	store, err := vectorstore.New("memory", nil)
	require.NoError(t, err)
	emb := &fixedEmbedder{}
	ck, err := chunker.New(500, 50)
	require.NoError(t, err)
	pipeline := ingest.NewPipeline(ck, emb, store, ingest.PipelineConfig{Collection: "meetings", Metric: "Cosine"})
	ingestSvc := service.NewIngestService(pipeline, config.SourceConfig{
		Type: "docs-dir",
		Data: map[string]interface{}{"dir": dir},
	})

	search := agent.NewSearchTool(emb, store, "meetings", 5)
	loop := agent.New(&cannedLLM{reply: "ANSWER: done"}, search, agent.NewRegistry(), 5, 8)
	agentSvc := service.NewAgentService(loop, search)
	summarySvc := service.NewSummaryService(&cannedLLM{reply: "short notes"})

	engine := gin.New()
	RegisterRoutes(engine.Group("/api/v1"), RouterDeps{
		Chat:    NewChatHandler(agentSvc),
		Ingest:  NewIngestHandler(ingestSvc),
		Summary: NewSummaryHandler(summarySvc),
	})
	return engine
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRoutes_IngestThenSearch(t *testing.T) {
	router := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/ingest", gin.H{})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "upserted")

	resp = postJSON(t, router, "/api/v1/search", gin.H{"query": "budget", "top_k": 2})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "launch")
}

func TestRoutes_Chat(t *testing.T) {
	router := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/chat", gin.H{"query": "what was decided"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "done")

	resp = postJSON(t, router, "/api/v1/chat", gin.H{"query": ""})
	require.Contains(t, resp.Body.String(), "invalid request")
}

func TestRoutes_ChatStream(t *testing.T) {
	router := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/chat/stream", gin.H{"query": "what was decided"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	body := resp.Body.String()
	require.Contains(t, body, "event:message")
	require.Contains(t, body, "done")
	require.Contains(t, body, "event:retrieved")
}

func TestRoutes_Summary(t *testing.T) {
	router := setupRouter(t)

	resp := postJSON(t, router, "/api/v1/summary", gin.H{"text": "we talked about many things"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "short notes")
}
