package service

import (
	"context"

	"ai-docquery-be/internal/config"
	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/pkg/rag"
)

type IRagService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	Health(ctx context.Context) (*dto.RagHealthResponse, error)
}

type ragService struct {
	orchestrator *rag.Orchestrator
	aiConfig     config.AIConfig
	logger       logger.ILogger
}

func NewRagService(orchestrator *rag.Orchestrator, aiConfig config.AIConfig, logger logger.ILogger) IRagService {
	return &ragService{
		orchestrator: orchestrator,
		aiConfig:     aiConfig,
		logger:       logger,
	}
}

// Health reports which AI gateways this instance is wired against. Providers
// are only dialed on demand, so readiness here means configuration, not an
// upstream round trip.
func (s *ragService) Health(ctx context.Context) (*dto.RagHealthResponse, error) {
	status := "ok"
	if s.aiConfig.LLMProvider == "openai" && s.aiConfig.OpenAIApiKey == "" {
		status = "degraded"
	}
	return &dto.RagHealthResponse{
		Status:            status,
		LLMProvider:       s.aiConfig.LLMProvider,
		LLMModel:          s.aiConfig.LLMModel,
		EmbeddingProvider: s.aiConfig.EmbeddingProvider,
		EmbeddingModel:    s.aiConfig.EmbeddingModel,
	}, nil
}

func (s *ragService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	history := make([]rag.Turn, len(req.History))
	for i, turn := range req.History {
		history[i] = rag.Turn{Role: turn.Role, Content: turn.Content}
	}

	answer, err := s.orchestrator.Generate(ctx, rag.GenerateRequest{
		Query:       req.Query,
		History:     history,
		DocumentId:  req.DocumentId,
		TopK:        req.TopK,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	sources := make([]*dto.SourceResponse, len(answer.Sources))
	for i, source := range answer.Sources {
		sources[i] = &dto.SourceResponse{
			SourceNumber:   source.SourceNumber,
			DocumentName:   source.DocumentName,
			DocumentId:     source.DocumentId,
			ChunkIndex:     source.ChunkIndex,
			RelevanceScore: source.RelevanceScore,
			TextPreview:    source.TextPreview,
		}
	}

	s.logger.Info("rag-service", "query answered", map[string]interface{}{
		"sources":      len(sources),
		"context_used": answer.ContextUsed,
		"model":        answer.Model,
		"tokens":       answer.TokensUsed,
	})

	return &dto.AskResponse{
		Answer:       answer.Answer,
		Sources:      sources,
		ContextUsed:  answer.ContextUsed,
		Model:        answer.Model,
		TokensUsed:   answer.TokensUsed,
		QualityScore: rag.EvaluateQuality(answer.Answer, answer.Sources),
	}, nil
}
