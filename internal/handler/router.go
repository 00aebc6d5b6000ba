package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Chat    *ChatHandler
	Ingest  *IngestHandler
	Summary *SummaryHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/chat", deps.Chat.Chat)
	api.POST("/chat/stream", deps.Chat.ChatStream)
	api.POST("/search", deps.Chat.Search)
	api.POST("/ingest", deps.Ingest.Trigger)
	api.POST("/summary", deps.Summary.Summary)
}
