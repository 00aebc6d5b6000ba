package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDirective_ToolCall(t *testing.T) {
	d, err := ParseDirective(`CALL_TOOL(meetings.search, {"query":"budget","top_k":3})`)
	require.NoError(t, err)
	require.Equal(t, DirectiveToolCall, d.Kind)
	require.Equal(t, "meetings.search", d.Name)
	require.Equal(t, "budget", d.Args["query"])
	require.Equal(t, float64(3), d.Args["top_k"])
}

func TestParseDirective_ToolCallSpansLines(t *testing.T) {
	raw := "CALL_TOOL(meetings.search, {\"query\":\n\"launch plan\"})"
	d, err := ParseDirective(raw)
	require.NoError(t, err)
	require.Equal(t, DirectiveToolCall, d.Kind)
	require.Equal(t, "launch plan", d.Args["query"])
}

func TestParseDirective_BadArgsDegradeToEmptyMap(t *testing.T) {
	d, err := ParseDirective(`CALL_TOOL(meetings.search, {not json})`)
	require.NoError(t, err)
	require.Equal(t, DirectiveToolCall, d.Kind)
	require.Empty(t, d.Args)
}

func TestParseDirective_MalformedToolCall(t *testing.T) {
	_, err := ParseDirective(`CALL_TOOL(bad syntax`)
	require.ErrorIs(t, err, ErrMalformedToolCall)
}

func TestParseDirective_Answer(t *testing.T) {
	d, err := ParseDirective("ANSWER: the budget was approved\n")
	require.NoError(t, err)
	require.Equal(t, DirectiveAnswer, d.Kind)
	require.Equal(t, "the budget was approved", d.Text)
}

func TestParseDirective_Unclassified(t *testing.T) {
	d, err := ParseDirective(`{"response":"hello"}`)
	require.NoError(t, err)
	require.Equal(t, DirectiveUnclassified, d.Kind)
	require.Equal(t, `{"response":"hello"}`, d.Raw)
}
