package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/meetagent/internal/model"
)

func TestNew_RejectsBadParams(t *testing.T) {
	_, err := New(0, 0)
	require.Error(t, err)
	_, err = New(100, 100)
	require.Error(t, err)
	_, err = New(100, 150)
	require.Error(t, err)
	_, err = New(100, -1)
	require.Error(t, err)
}

func TestSplit_EmptyTextYieldsNothing(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)
	require.Empty(t, c.Split(""))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)
	chunks := c.Split("hello world")
	require.Equal(t, []string{"hello world"}, chunks)
}

func TestSplit_WindowsOverlapAndReconstruct(t *testing.T) {
	c, err := New(10, 3)
	require.NoError(t, err)
	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		if i < len(chunks)-1 {
			require.Len(t, ch, 10)
		}
		require.LessOrEqual(t, len(ch), 10)
	}
	// Dropping the overlapping prefix of every chunk after the first
	// reconstructs the input exactly.
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for _, ch := range chunks[1:] {
		sb.WriteString(ch[3:])
	}
	require.Equal(t, text, sb.String())
}

func TestSplit_NoEmptyTrailingWindow(t *testing.T) {
	c, err := New(5, 2)
	require.NoError(t, err)
	// len == maxChars: exactly one chunk, no empty follow-up
	chunks := c.Split("abcde")
	require.Equal(t, []string{"abcde"}, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(8, 4)
	require.NoError(t, err)
	text := strings.Repeat("meeting notes ", 20)
	first := c.Split(text)
	second := c.Split(text)
	require.Equal(t, first, second)
}

func TestChunkDocument_AssignsGaplessIDs(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)
	doc := model.Document{DocID: "m1-alice", Text: "abcdefghijklmnopqrstuvwxyz"}
	chunks := c.ChunkDocument(doc)
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		require.Equal(t, i, ch.Index)
		require.Equal(t, "m1-alice", ch.DocID)
		require.Contains(t, ch.ChunkID, "#")
	}
	require.Equal(t, "m1-alice#0", chunks[0].ChunkID)
}
