package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/model"
	"github.com/xxxsen/meetagent/internal/pkg/errors"
	"github.com/xxxsen/meetagent/internal/vectorstore"
)

type qdrantConfig struct {
	URL            string `json:"url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Store is a minimal REST client to Qdrant.
type Store struct {
	url    string
	apiKey string
	client *http.Client
}

func NewStore(cfg qdrantConfig) *Store {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:    strings.TrimRight(cfg.URL, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Store) EnsureCollection(ctx context.Context, name string, dim int, metric string) error {
	if s.collectionExists(ctx, name) {
		logutil.GetLogger(ctx).Info("collection exists", zap.String("collection", name))
		return nil
	}
	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     dim,
			"distance": metric,
		},
	}
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, name), body, nil); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("collection created", zap.String("collection", name), zap.Int("size", dim))
	return nil
}

func (s *Store) CollectionDim(ctx context.Context, name string) (int, error) {
	var resp struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, name), &resp); err != nil {
		return 0, err
	}
	if resp.Result.Config.Params.Vectors.Size == 0 {
		return 0, errors.ErrNotFound
	}
	return resp.Result.Config.Params.Vectors.Size, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, points []model.Point) error {
	items := make([]map[string]interface{}, 0, len(points))
	for _, p := range points {
		items = append(items, map[string]interface{}{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		})
	}
	body := map[string]interface{}{"points": items}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, collection), body, nil)
}

func (s *Store) Search(ctx context.Context, collection string, vector []float32, topK int) ([]model.RetrievalHit, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]interface{}{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      interface{}            `json:"id"`
			Score   float64                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, collection), req, &resp); err != nil {
		return nil, err
	}
	hits := make([]model.RetrievalHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		payload := r.Payload
		if payload == nil {
			payload = map[string]interface{}{}
		}
		hits = append(hits, model.RetrievalHit{
			ID:      fmt.Sprintf("%v", r.ID),
			Score:   r.Score,
			Payload: payload,
		})
	}
	return hits, nil
}

func (s *Store) collectionExists(ctx context.Context, name string) bool {
	err := s.getJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, name), nil)
	return err == nil
}

func (s *Store) getJSON(ctx context.Context, url string, out interface{}) error {
	return s.doJSON(ctx, http.MethodGet, url, nil, out)
}

func (s *Store) putJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	return s.doJSON(ctx, http.MethodPut, url, body, out)
}

func (s *Store) postJSON(ctx context.Context, url string, body interface{}, out interface{}) error {
	return s.doJSON(ctx, http.MethodPost, url, body, out)
}

func (s *Store) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func createStore(args interface{}) (vectorstore.Store, error) {
	cfg := qdrantConfig{}
	if err := vectorstore.DecodeConfig(args, &cfg); err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		cfg.URL = "http://localhost:6333"
	}
	return NewStore(cfg), nil
}

func init() {
	vectorstore.Register("qdrant", createStore)
}
