package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/meetagent/internal/pkg/errcode"
	"github.com/xxxsen/meetagent/internal/pkg/response"
	"github.com/xxxsen/meetagent/internal/service"
)

type SummaryHandler struct {
	summary *service.SummaryService
}

func NewSummaryHandler(summary *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summary: summary}
}

type summaryRequest struct {
	Text string `json:"text"`
}

func (h *SummaryHandler) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	result, err := h.summary.Summarize(c.Request.Context(), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"summary": result})
}
