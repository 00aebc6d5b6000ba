package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/meetagent/internal/model"
)

func TestDocsLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "plan.md"),
		[]byte("# Launch Plan\n\nShip the **database** migration.\n\n```\nmake deploy\n```\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw.txt"), []byte("  budget approved  "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   "), 0o644))

	ld, err := New("docs-dir", map[string]interface{}{"dir": dir})
	require.NoError(t, err)
	docs, err := Collect(context.Background(), ld)
	require.NoError(t, err)

	byID := map[string]model.Document{}
	for _, d := range docs {
		byID[d.DocID] = d
	}
	require.Len(t, byID, 2)

	md, ok := byID["notes/plan.md"]
	require.True(t, ok)
	require.Equal(t, model.SourceFileImport, md.Source)
	require.Equal(t, "plan.md", md.Title)
	require.Contains(t, md.Text, "Launch Plan")
	require.Contains(t, md.Text, "database")
	require.Contains(t, md.Text, "make deploy")
	require.NotContains(t, md.Text, "#")
	require.NotContains(t, md.Text, "**")

	txt, ok := byID["raw.txt"]
	require.True(t, ok)
	require.Equal(t, "budget approved", txt.Text)
}

func TestDocsLoader_RequiresDir(t *testing.T) {
	_, err := New("docs-dir", map[string]interface{}{})
	require.Error(t, err)
}
