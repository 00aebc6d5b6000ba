package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/meetagent/internal/model"
)

func TestStore_SearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.EnsureCollection(ctx, "c", 2, "Cosine"))
	require.NoError(t, s.Upsert(ctx, "c", []model.Point{
		{ID: "a", Vector: []float32{1, 0}, Payload: map[string]interface{}{"text": "exact"}},
		{ID: "b", Vector: []float32{0, 1}, Payload: map[string]interface{}{"text": "orthogonal"}},
		{ID: "c", Vector: []float32{1, 1}, Payload: map[string]interface{}{"text": "diagonal"}},
	}))

	hits, err := s.Search(ctx, "c", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "a", hits[0].ID)
	require.Equal(t, "c", hits[1].ID)
	require.Greater(t, hits[0].Score, hits[1].Score)
}

func TestStore_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.EnsureCollection(ctx, "c", 2, "Cosine"))
	require.NoError(t, s.Upsert(ctx, "c", []model.Point{{ID: "a", Vector: []float32{1, 0}}}))
	require.NoError(t, s.Upsert(ctx, "c", []model.Point{{ID: "a", Vector: []float32{0, 1}}}))

	hits, err := s.Search(ctx, "c", []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestStore_EnsureCollectionIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.EnsureCollection(ctx, "c", 4, "Cosine"))
	require.NoError(t, s.EnsureCollection(ctx, "c", 8, "Dot"))

	dim, err := s.CollectionDim(ctx, "c")
	require.NoError(t, err)
	require.Equal(t, 4, dim)
}

func TestStore_MissingCollection(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.CollectionDim(ctx, "nope")
	require.Error(t, err)
	_, err = s.Search(ctx, "nope", []float32{1}, 3)
	require.Error(t, err)
}
