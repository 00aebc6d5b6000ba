package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/ai"
	appErr "github.com/xxxsen/meetagent/internal/pkg/errors"
	"github.com/xxxsen/meetagent/internal/pkg/errcode"
	"github.com/xxxsen/meetagent/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai backend unavailable")
	case errors.Is(err, appErr.ErrUnavailable):
		response.Error(c, errcode.ErrStoreUnavailable, "backend unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
