package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/meetagent/internal/pkg/errcode"
	"github.com/xxxsen/meetagent/internal/pkg/response"
	"github.com/xxxsen/meetagent/internal/service"
)

// streamSliceChars bounds one SSE message event.
const streamSliceChars = 200

type ChatHandler struct {
	agent *service.AgentService
}

func NewChatHandler(agent *service.AgentService) *ChatHandler {
	return &ChatHandler{agent: agent}
}

type chatRequest struct {
	Query           string `json:"query"`
	UseRetrieval    *bool  `json:"use_retrieval"`
	MaxContextItems int    `json:"max_context_items"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (r *chatRequest) useRetrieval() bool {
	if r.UseRetrieval == nil {
		return true
	}
	return *r.UseRetrieval
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	res, err := h.agent.Chat(c.Request.Context(), req.Query, req.useRetrieval(), req.MaxContextItems)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"text": res.Text, "retrieved": res.Retrieved})
}

// ChatStream runs the agent to completion, then replays the answer as SSE
// message events followed by one retrieved event and a done marker.
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	res, err := h.agent.Chat(c.Request.Context(), req.Query, req.useRetrieval(), req.MaxContextItems)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	for _, slice := range sliceText(res.Text, streamSliceChars) {
		c.SSEvent("message", slice)
		c.Writer.Flush()
	}
	c.SSEvent("retrieved", res.Retrieved)
	c.SSEvent("done", "")
	c.Writer.Flush()
}

func (h *ChatHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	hits, err := h.agent.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"hits": hits})
}

// sliceText splits text on rune boundaries into pieces of at most n runes.
func sliceText(text string, n int) []string {
	if n <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}
