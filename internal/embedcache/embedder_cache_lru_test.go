package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingEmbedder struct {
	calls   int
	batches [][]string
}

func (r *recordingEmbedder) Embed(ctx context.Context, texts []string) ([]interface{}, error) {
	r.calls++
	r.batches = append(r.batches, texts)
	out := make([]interface{}, 0, len(texts))
	for _, text := range texts {
		out = append(out, []float64{float64(len(text))})
	}
	return out, nil
}

func (r *recordingEmbedder) ModelName() string { return "recording" }
func (r *recordingEmbedder) Dimension() int    { return 1 }

func TestLruEmbedder_CachesPerText(t *testing.T) {
	next := &recordingEmbedder{}
	e := WrapLruCacheToEmbedder(next, 16, time.Minute)

	first, err := e.Embed(context.Background(), []string{"aa", "bbb"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, 1, next.calls)

	second, err := e.Embed(context.Background(), []string{"aa", "bbb"})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, next.calls)
}

func TestLruEmbedder_OnlyMissesReachBackend(t *testing.T) {
	next := &recordingEmbedder{}
	e := WrapLruCacheToEmbedder(next, 16, time.Minute)

	_, err := e.Embed(context.Background(), []string{"aa"})
	require.NoError(t, err)

	out, err := e.Embed(context.Background(), []string{"aa", "cccc"})
	require.NoError(t, err)
	require.Equal(t, []float64{2}, out[0])
	require.Equal(t, []float64{4}, out[1])
	require.Equal(t, 2, next.calls)
	require.Equal(t, []string{"cccc"}, next.batches[1])
}

func TestWrap_DisabledPassesThrough(t *testing.T) {
	next := &recordingEmbedder{}
	require.Equal(t, next, WrapLruCacheToEmbedder(next, 0, time.Minute))
	require.Equal(t, next, WrapLruCacheToEmbedder(next, 16, 0))
}
