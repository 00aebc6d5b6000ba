package agent

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedToolCall marks model output that starts a tool call but does
// not match the expected syntax. The run must stop rather than retry.
var ErrMalformedToolCall = errors.New("malformed CALL_TOOL directive")

type DirectiveKind int

const (
	DirectiveUnclassified DirectiveKind = iota
	DirectiveToolCall
	DirectiveAnswer
)

// Directive is the classified intent of one model response. Exactly one of
// the kind-specific fields carries data; Raw always holds the trimmed
// original text.
type Directive struct {
	Kind DirectiveKind
	// Name and Args are set for DirectiveToolCall.
	Name string
	Args map[string]interface{}
	// Text is set for DirectiveAnswer, with the prefix stripped.
	Text string
	Raw  string
}

// name is everything before the first comma, args are the json object after
var toolCallRe = regexp.MustCompile(`(?s)CALL_TOOL\(([^,]+)\s*,\s*(\{.*\})\)`)

// ParseDirective classifies raw model output by prefix. CALL_TOOL with a
// syntax the pattern cannot match returns ErrMalformedToolCall; argument
// JSON that fails to decode degrades to an empty argument map instead.
func ParseDirective(raw string) (Directive, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "CALL_TOOL") {
		m := toolCallRe.FindStringSubmatch(trimmed)
		if m == nil {
			return Directive{}, ErrMalformedToolCall
		}
		args := map[string]interface{}{}
		if err := json.Unmarshal([]byte(m[2]), &args); err != nil {
			args = map[string]interface{}{}
		}
		return Directive{
			Kind: DirectiveToolCall,
			Name: strings.TrimSpace(m[1]),
			Args: args,
			Raw:  trimmed,
		}, nil
	}
	if strings.HasPrefix(trimmed, "ANSWER:") {
		return Directive{
			Kind: DirectiveAnswer,
			Text: strings.TrimSpace(strings.TrimPrefix(trimmed, "ANSWER:")),
			Raw:  trimmed,
		}, nil
	}
	return Directive{Kind: DirectiveUnclassified, Raw: trimmed}, nil
}
