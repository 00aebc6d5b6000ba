package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/ai"
	"github.com/xxxsen/meetagent/internal/model"
)

const noContextSentinel = "(no context)"

const systemPreamble = `You are MeetingAgent.
When answering, provide a concise, actionable answer and list explicit action items if relevant.
If you need to search recorded meetings, use the exact token: CALL_TOOL(name,args_json)
Example: CALL_TOOL(meetings.search, {"query":"budget", "top_k":5})
Otherwise reply with ANSWER: <your answer>`

const userTemplate = `CONTEXT:
%s

QUESTION:
%s

Strictly use context data and return answer based on that in a concise and readable way.`

// Agent runs one bounded question-answering conversation per Run call. It
// holds only read-only handles and is safe for concurrent Run invocations.
type Agent struct {
	generator ai.IGenerator
	search    *SearchTool
	tools     *Registry
	topK      int
	maxTurns  int
}

func New(generator ai.IGenerator, search *SearchTool, tools *Registry, topK int, maxTurns int) *Agent {
	if topK <= 0 {
		topK = 10
	}
	if maxTurns <= 0 {
		maxTurns = 8
	}
	if tools == nil {
		tools = NewRegistry()
	}
	if search != nil && tools.Get(search.Name()) == nil {
		tools.Register(search)
	}
	return &Agent{
		generator: generator,
		search:    search,
		tools:     tools,
		topK:      topK,
		maxTurns:  maxTurns,
	}
}

// Run drives the directive loop until the model answers, a terminal error
// occurs, or maxTurns is exhausted. Terminal failures caused by the model's
// own output come back as an answer-shaped result with an explanatory text,
// never as an error; backend I/O failures return an error.
func (a *Agent) Run(ctx context.Context, query string, useRetrieval bool, maxContextItems int) (*model.RunResult, error) {
	logger := logutil.GetLogger(ctx)
	contextBlock := noContextSentinel
	var retrieved []model.RetrievalHit

	for turn := 0; turn < a.maxTurns; turn++ {
		prompt := buildPrompt(contextBlock, query)
		decision, err := a.generator.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("llm backend: %w", err)
		}
		directive, err := ParseDirective(decision)
		if err != nil {
			logger.Warn("terminating run on malformed tool call", zap.Int("turn", turn))
			return errorResult("malformed CALL_TOOL", retrieved), nil
		}

		switch directive.Kind {
		case DirectiveToolCall:
			output, hits := a.executeTool(ctx, directive)
			if hits != nil {
				retrieved = hits
			}
			contextBlock = toolOutputMarker(directive.Name, output)

		case DirectiveAnswer:
			return &model.RunResult{Text: directive.Text, Retrieved: retrieved}, nil

		default:
			if useRetrieval {
				topK := maxContextItems
				if topK <= 0 {
					topK = a.topK
				}
				hits, err := a.search.Search(ctx, query, topK)
				if err != nil {
					return nil, err
				}
				retrieved = hits
				contextBlock = assembleContext(hits, maxContextItems)
				// retrieval happens at most once per run
				useRetrieval = false
				continue
			}
			var payload struct {
				Response string `json:"response"`
			}
			if err := json.Unmarshal([]byte(directive.Raw), &payload); err != nil || payload.Response == "" {
				return errorResult("unparsable model response", retrieved), nil
			}
			return &model.RunResult{Text: payload.Response, Retrieved: retrieved}, nil
		}
	}
	logger.Warn("run exhausted its turn budget", zap.Int("max_turns", a.maxTurns))
	return errorResult("max turns exceeded", retrieved), nil
}

// executeTool resolves and runs a tool, converting unknown tools and tool
// failures into an error-marked output the model can react to. When the tool
// produced retrieval hits they are returned so the run can record them.
func (a *Agent) executeTool(ctx context.Context, directive Directive) (interface{}, []model.RetrievalHit) {
	tool := a.tools.Get(directive.Name)
	if tool == nil {
		return map[string]string{"error": "tool not found"}, nil
	}
	output, err := tool.Execute(ctx, directive.Args)
	if err != nil {
		logutil.GetLogger(ctx).Warn("tool execution failed",
			zap.String("tool", directive.Name), zap.Error(err))
		return map[string]string{"error": err.Error()}, nil
	}
	if hits, ok := output.([]model.RetrievalHit); ok {
		return output, hits
	}
	return output, nil
}

func buildPrompt(contextBlock string, question string) string {
	return systemPreamble + "\n\n" + fmt.Sprintf(userTemplate, contextBlock, question)
}

// assembleContext joins hit texts in relevance order, one block per hit.
func assembleContext(hits []model.RetrievalHit, maxItems int) string {
	if maxItems > 0 && len(hits) > maxItems {
		hits = hits[:maxItems]
	}
	blocks := make([]string, 0, len(hits))
	for _, h := range hits {
		text, _ := h.Payload["text"].(string)
		if text == "" {
			text, _ = h.Payload["excerpt"].(string)
		}
		if text == "" {
			continue
		}
		blocks = append(blocks, text)
	}
	if len(blocks) == 0 {
		return noContextSentinel
	}
	return strings.Join(blocks, "\n\n")
}

func toolOutputMarker(name string, output interface{}) string {
	data, err := json.Marshal(output)
	if err != nil {
		data = []byte(`{"error":"unserializable tool output"}`)
	}
	return fmt.Sprintf("TOOL_OUTPUT(%s,%s)", name, data)
}

func errorResult(msg string, retrieved []model.RetrievalHit) *model.RunResult {
	return &model.RunResult{Text: "Agent error: " + msg, Retrieved: retrieved}
}
