package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/ai"
	appErr "github.com/xxxsen/meetagent/internal/pkg/errors"
)

const summaryPrompt = "Turn these meeting utterances into a short summary, list decisions and action items:\n\n%s"

// defaultSummaryWindow bounds one summarization call to roughly a model
// context window, counted in whitespace-separated words.
const defaultSummaryWindow = 3000

// SummaryService condenses a raw transcript into meeting notes. Long
// transcripts are summarized per window, then the window summaries are
// reduced into one final note.
type SummaryService struct {
	generator   ai.IGenerator
	windowWords int
}

func NewSummaryService(generator ai.IGenerator) *SummaryService {
	return &SummaryService{generator: generator, windowWords: defaultSummaryWindow}
}

func (s *SummaryService) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", appErr.ErrInvalid
	}
	windows := splitWords(transcript, s.windowWords)
	summaries := make([]string, 0, len(windows))
	for i, w := range windows {
		out, err := s.generator.Generate(ctx, fmt.Sprintf(summaryPrompt, w))
		if err != nil {
			return "", fmt.Errorf("summarize window %d/%d: %w", i+1, len(windows), err)
		}
		summaries = append(summaries, strings.TrimSpace(out))
	}
	merged := strings.Join(summaries, "\n")
	if len(summaries) <= 1 {
		return merged, nil
	}
	final, err := s.generator.Generate(ctx, fmt.Sprintf(summaryPrompt, merged))
	if err != nil {
		// partial summaries are still useful, return them raw
		logutil.GetLogger(ctx).Warn("final reduce failed, returning window summaries", zap.Error(err))
		return merged, nil
	}
	return strings.TrimSpace(final), nil
}

// splitWords groups whitespace-separated words into windows of at most
// maxWords each.
func splitWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if maxWords <= 0 {
		maxWords = defaultSummaryWindow
	}
	var windows []string
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
	}
	return windows
}
