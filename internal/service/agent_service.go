package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/meetagent/internal/agent"
	"github.com/xxxsen/meetagent/internal/model"
	appErr "github.com/xxxsen/meetagent/internal/pkg/errors"
)

// AgentService fronts the directive loop for the HTTP boundary. One Chat
// call is one bounded agent run.
type AgentService struct {
	agent  *agent.Agent
	search *agent.SearchTool
}

func NewAgentService(a *agent.Agent, search *agent.SearchTool) *AgentService {
	return &AgentService{agent: a, search: search}
}

func (s *AgentService) Chat(ctx context.Context, query string, useRetrieval bool, maxContextItems int) (*model.RunResult, error) {
	if query == "" {
		return nil, appErr.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("query", query))
	start := time.Now()
	res, err := s.agent.Run(ctx, query, useRetrieval, maxContextItems)
	if err != nil {
		logger.Error("agent run failed", zap.Error(err))
		return nil, err
	}
	logger.Info("agent run finished",
		zap.Int("retrieved", len(res.Retrieved)),
		zap.Duration("cost", time.Since(start)))
	return res, nil
}

// Search exposes raw similarity search without the agent loop.
func (s *AgentService) Search(ctx context.Context, query string, topK int) ([]model.RetrievalHit, error) {
	if query == "" {
		return nil, appErr.ErrInvalid
	}
	return s.search.Search(ctx, query, topK)
}
