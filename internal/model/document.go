package model

const (
	SourceMeetingTranscript = "meeting-transcript"
	SourceFileImport        = "file-import"
)

// Document is one unit of raw text produced by a loader. It is immutable
// once emitted; the ingest pipeline is its only consumer.
type Document struct {
	DocID     string `json:"doc_id"`
	Source    string `json:"source"`
	OriginID  string `json:"origin_id"`
	Title     string `json:"title"`
	Speaker   string `json:"speaker,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
}

// Chunk is a bounded, possibly overlapping window of a document's text.
// ChunkID is "{doc_id}#{index}"; index is ascending with no gaps.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	DocID   string `json:"doc_id"`
	Index   int    `json:"index"`
	Text    string `json:"text"`
}
