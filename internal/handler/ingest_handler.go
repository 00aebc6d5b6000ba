package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/meetagent/internal/pkg/response"
	"github.com/xxxsen/meetagent/internal/service"
)

type IngestHandler struct {
	ingest *service.IngestService
}

func NewIngestHandler(ingest *service.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Trigger runs a full ingestion pass over the configured source.
func (h *IngestHandler) Trigger(c *gin.Context) {
	stats, err := h.ingest.Run(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"upserted": stats.Upserted, "skipped": stats.Skipped})
}
