package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://localhost:11434"

type ollamaConfig struct {
	BaseURL string `json:"base_url"`
}

type ollamaProvider struct {
	baseURL string
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// Embeddings is kept untyped on purpose: Ollama answers with a nested
// [[...]] even for a single input, and the normalizer unwraps it downstream.
type ollamaEmbedResponse struct {
	Embeddings interface{} `json:"embeddings"`
}

func (p *ollamaProvider) Name() string {
	return "ollama"
}

func (p *ollamaProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/api/generate"
	reqBody := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}
	var out ollamaGenerateResponse
	if err := postJSON(ctx, endpoint, reqBody, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

type ollamaEmbedProvider struct {
	baseURL string
}

func (p *ollamaEmbedProvider) Name() string {
	return "ollama"
}

func (p *ollamaEmbedProvider) Embed(ctx context.Context, model string, texts []string) ([]interface{}, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/api/embed"
	raw := make([]interface{}, 0, len(texts))
	for _, text := range texts {
		reqBody := ollamaEmbedRequest{Model: model, Input: text}
		var out ollamaEmbedResponse
		if err := postJSON(ctx, endpoint, reqBody, &out); err != nil {
			return nil, err
		}
		if out.Embeddings == nil {
			return nil, fmt.Errorf("ollama response has no embeddings")
		}
		raw = append(raw, out.Embeddings)
	}
	return raw, nil
}

func postJSON(ctx context.Context, endpoint string, in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func createOllamaFactory(args interface{}) (IAIProvider, error) {
	cfg := &ollamaConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaProvider{baseURL: baseURL}, nil
}

func createOllamaEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &ollamaConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaEmbedProvider{baseURL: baseURL}, nil
}

func init() {
	Register("ollama", createOllamaFactory)
	RegisterEmbed("ollama", createOllamaEmbedFactory)
}
