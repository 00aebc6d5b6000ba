package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeVector_FlatList(t *testing.T) {
	vec, ok := NormalizeVector([]interface{}{1.0, 2.0, 3.0}, 3)
	require.True(t, ok)
	require.Equal(t, []float32{1, 2, 3}, vec)
}

func TestNormalizeVector_TypedSlices(t *testing.T) {
	vec, ok := NormalizeVector([]float32{0.1, 0.2}, 2)
	require.True(t, ok)
	require.Len(t, vec, 2)

	vec, ok = NormalizeVector([]float64{0.1, 0.2, 0.3}, 0)
	require.True(t, ok)
	require.Len(t, vec, 3)
}

func TestNormalizeVector_MapForms(t *testing.T) {
	vec, ok := NormalizeVector(map[string]interface{}{"embedding": []interface{}{1.0, 2.0}}, 2)
	require.True(t, ok)
	require.Equal(t, []float32{1, 2}, vec)

	vec, ok = NormalizeVector(map[string]interface{}{"vector": []float64{4, 5, 6}}, 3)
	require.True(t, ok)
	require.Equal(t, []float32{4, 5, 6}, vec)

	_, ok = NormalizeVector(map[string]interface{}{"values": []float64{1}}, 1)
	require.False(t, ok)
}

func TestNormalizeVector_SingletonWrap(t *testing.T) {
	raw := []interface{}{[]interface{}{1.0, 2.0, 3.0}}
	vec, ok := NormalizeVector(raw, 3)
	require.True(t, ok)
	require.Equal(t, []float32{1, 2, 3}, vec)
}

func TestNormalizeVector_ListOfListsPicksExpectedDim(t *testing.T) {
	raw := []interface{}{
		[]interface{}{1.0, 2.0},
		[]interface{}{3.0, 4.0, 5.0},
	}
	vec, ok := NormalizeVector(raw, 3)
	require.True(t, ok)
	require.Equal(t, []float32{3, 4, 5}, vec)
}

func TestNormalizeVector_ListOfListsPicksFirstNumeric(t *testing.T) {
	raw := []interface{}{
		[]interface{}{"not", "numbers"},
		[]interface{}{7.0, 8.0},
	}
	vec, ok := NormalizeVector(raw, 0)
	require.True(t, ok)
	require.Equal(t, []float32{7, 8}, vec)
}

func TestNormalizeVector_Rejections(t *testing.T) {
	_, ok := NormalizeVector(nil, 3)
	require.False(t, ok)

	_, ok = NormalizeVector("not a vector", 3)
	require.False(t, ok)

	_, ok = NormalizeVector([]interface{}{1.0, "x", 3.0}, 3)
	require.False(t, ok)

	// wrong dimension is a rejection, never a wrong-shaped vector
	_, ok = NormalizeVector([]float64{1, 2}, 3)
	require.False(t, ok)

	_, ok = NormalizeVector([]interface{}{}, 0)
	require.False(t, ok)
}

func TestNormalizeVector_Idempotent(t *testing.T) {
	first, ok := NormalizeVector([][]float64{{1, 2, 3}}, 3)
	require.True(t, ok)
	second, ok := NormalizeVector(first, 3)
	require.True(t, ok)
	require.Equal(t, first, second)
}
