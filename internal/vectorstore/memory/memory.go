package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/xxxsen/meetagent/internal/model"
	"github.com/xxxsen/meetagent/internal/pkg/errors"
	"github.com/xxxsen/meetagent/internal/vectorstore"
)

// Store keeps collections in process memory and ranks by cosine similarity.
// Meant for development and tests.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dim    int
	metric string
	points []model.Point
}

func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) EnsureCollection(ctx context.Context, name string, dim int, metric string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return nil
	}
	s.collections[name] = &collection{dim: dim, metric: metric}
	return nil
}

func (s *Store) CollectionDim(ctx context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[name]
	if !ok {
		return 0, errors.ErrNotFound
	}
	return coll.dim, nil
}

func (s *Store) Upsert(ctx context.Context, name string, points []model.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.collections[name]
	if !ok {
		return errors.ErrNotFound
	}
	for _, p := range points {
		replaced := false
		for i := range coll.points {
			if coll.points[i].ID == p.ID {
				coll.points[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			coll.points = append(coll.points, p)
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, name string, vector []float32, topK int) ([]model.RetrievalHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.collections[name]
	if !ok {
		return nil, errors.ErrNotFound
	}
	if topK <= 0 {
		topK = 5
	}
	hits := make([]model.RetrievalHit, 0, len(coll.points))
	for _, p := range coll.points {
		hits = append(hits, model.RetrievalHit{
			ID:      p.ID,
			Score:   cosineSimilarity(vector, p.Vector),
			Payload: p.Payload,
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func init() {
	vectorstore.Register("memory", func(args interface{}) (vectorstore.Store, error) {
		return NewStore(), nil
	})
}
