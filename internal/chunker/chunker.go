package chunker

import (
	"fmt"
	"strconv"

	"github.com/xxxsen/meetagent/internal/model"
)

// Chunker splits raw text into fixed-size windows that overlap by a fixed
// number of characters. It is pure: the same input always yields the same
// windows.
type Chunker struct {
	maxChars int
	overlap  int
}

func New(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max_chars must be positive, got %d", maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		return nil, fmt.Errorf("overlap must be in [0, max_chars), got %d", overlap)
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}, nil
}

// Split windows text into overlapping slices. Empty text yields nil. The
// scan stops once a window reaches the end of the text, so no empty trailing
// window is ever emitted.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	n := len(text)
	i := 0
	for i < n {
		end := i + c.maxChars
		if end > n {
			end = n
		}
		chunks = append(chunks, text[i:end])
		if end >= n {
			break
		}
		i = end - c.overlap
	}
	return chunks
}

// ChunkDocument splits a document and assigns chunk ids "{doc_id}#{index}"
// with ascending, gapless indexes.
func (c *Chunker) ChunkDocument(doc model.Document) []model.Chunk {
	parts := c.Split(doc.Text)
	chunks := make([]model.Chunk, 0, len(parts))
	for idx, part := range parts {
		chunks = append(chunks, model.Chunk{
			ChunkID: doc.DocID + "#" + strconv.Itoa(idx),
			DocID:   doc.DocID,
			Index:   idx,
			Text:    part,
		})
	}
	return chunks
}
