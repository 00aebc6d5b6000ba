package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingLLM struct {
	calls   int
	prompts []string
	fail    bool
	failAt  int
}

func (c *countingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.fail && c.calls >= c.failAt {
		return "", fmt.Errorf("backend down")
	}
	return fmt.Sprintf("summary %d", c.calls), nil
}

func TestSummarize_ShortTranscriptSingleCall(t *testing.T) {
	llm := &countingLLM{}
	s := NewSummaryService(llm)

	out, err := s.Summarize(context.Background(), "we agreed to ship on friday")
	require.NoError(t, err)
	require.Equal(t, "summary 1", out)
	require.Equal(t, 1, llm.calls)
}

func TestSummarize_LongTranscriptMapReduce(t *testing.T) {
	llm := &countingLLM{}
	s := NewSummaryService(llm)
	s.windowWords = 10

	transcript := strings.Repeat("word ", 25)
	out, err := s.Summarize(context.Background(), transcript)
	require.NoError(t, err)
	// 3 windows plus one reduce pass
	require.Equal(t, 4, llm.calls)
	require.Equal(t, "summary 4", out)
	require.Contains(t, llm.prompts[3], "summary 1")
	require.Contains(t, llm.prompts[3], "summary 3")
}

func TestSummarize_ReduceFailureReturnsWindowSummaries(t *testing.T) {
	llm := &countingLLM{fail: true, failAt: 4}
	s := NewSummaryService(llm)
	s.windowWords = 10

	transcript := strings.Repeat("word ", 25)
	out, err := s.Summarize(context.Background(), transcript)
	require.NoError(t, err)
	require.Equal(t, "summary 1\nsummary 2\nsummary 3", out)
}

func TestSummarize_WindowFailureAborts(t *testing.T) {
	llm := &countingLLM{fail: true, failAt: 1}
	s := NewSummaryService(llm)

	_, err := s.Summarize(context.Background(), "anything at all")
	require.Error(t, err)
}

func TestSummarize_EmptyTranscriptRejected(t *testing.T) {
	s := NewSummaryService(&countingLLM{})
	_, err := s.Summarize(context.Background(), "   \n ")
	require.Error(t, err)
}
