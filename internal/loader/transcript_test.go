package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/meetagent/internal/model"
)

func TestCleanSegment(t *testing.T) {
	require.Equal(t, "so next steps are to migrate the database",
		cleanSegment("Mm hmm yeah so next steps are to migrate the database"))
	require.Equal(t, "", cleanSegment("uh um yeah okay"))
}

func TestIsUselessSegment(t *testing.T) {
	require.True(t, isUselessSegment(""))
	require.True(t, isUselessSegment(" . , - "))
	require.True(t, isUselessSegment("hmm okay"))
	require.False(t, isUselessSegment("migrate the database"))
	require.False(t, isUselessSegment("launch"))
}

func TestTranscriptLoader_Load(t *testing.T) {
	lines := `{"dialogId":"d1","meeting":{"meetingId":"m1","transcriptSegments":[{"speakerName":"alice","text":"Mm hmm we agreed to migrate the database next sprint"},{"speakerName":"bob","text":"uh huh okay"}]}}
not json at all
{"dialogId":"d2","meeting":{"meetingId":"","transcriptSegments":[{"speakerName":"","text":"the budget was approved yesterday"}]}}
`
	path := filepath.Join(t.TempDir(), "meetings.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	ld, err := New("transcript-jsonl", map[string]interface{}{"path": path})
	require.NoError(t, err)
	docs, err := Collect(context.Background(), ld)
	require.NoError(t, err)

	// filler-only and malformed lines are dropped
	require.Len(t, docs, 2)
	require.Equal(t, "m1-alice", docs[0].DocID)
	require.Equal(t, model.SourceMeetingTranscript, docs[0].Source)
	require.Equal(t, "alice", docs[0].Speaker)
	require.Equal(t, "we agreed to migrate the database next sprint", docs[0].Text)

	// meeting id falls back to the dialog id
	require.Equal(t, "d2-unknown", docs[1].DocID)
	require.Equal(t, "d2", docs[1].OriginID)
}

func TestTranscriptLoader_RequiresPath(t *testing.T) {
	_, err := New("transcript-jsonl", map[string]interface{}{})
	require.Error(t, err)
}

func TestLoaderRegistry_UnknownSource(t *testing.T) {
	_, err := New("no-such-source", nil)
	require.Error(t, err)
}
