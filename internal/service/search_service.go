package service

import (
	"context"
	"math"

	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/internal/repository/unitofwork"
	"ai-docquery-be/pkg/searchengine"
)

type ISearchService interface {
	Semantic(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Keyword(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Hybrid(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	WithContext(ctx context.Context, req *dto.SearchWithContextRequest) (*dto.SearchWithContextResponse, error)
	Statistics(ctx context.Context) (*dto.SearchStatisticsResponse, error)
}

type searchService struct {
	engine      *searchengine.Engine
	uowFactory  unitofwork.RepositoryFactory
	defaultTopK int
	logger      logger.ILogger
}

func NewSearchService(engine *searchengine.Engine, uowFactory unitofwork.RepositoryFactory, defaultTopK int, logger logger.ILogger) ISearchService {
	if defaultTopK < 1 {
		defaultTopK = 5
	}
	return &searchService{
		engine:      engine,
		uowFactory:  uowFactory,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
}

func (s *searchService) Semantic(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	results, err := s.engine.Semantic(ctx, req.Query, s.topK(req.TopK), req.DocumentId)
	if err != nil {
		return nil, err
	}
	return s.toSearchResponse(req.Query, results), nil
}

func (s *searchService) Keyword(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	results, err := s.engine.Keyword(ctx, req.Query, s.topK(req.TopK), req.DocumentId)
	if err != nil {
		return nil, err
	}
	return s.toSearchResponse(req.Query, results), nil
}

func (s *searchService) Hybrid(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	results, err := s.engine.Hybrid(ctx, req.Query, s.topK(req.TopK), req.DocumentId)
	if err != nil {
		return nil, err
	}
	return s.toSearchResponse(req.Query, results), nil
}

func (s *searchService) WithContext(ctx context.Context, req *dto.SearchWithContextRequest) (*dto.SearchWithContextResponse, error) {
	contextWindow := req.ContextWindow
	if contextWindow < 1 {
		contextWindow = 1
	}

	results, err := s.engine.WithContext(ctx, req.Query, s.topK(req.TopK), contextWindow, req.DocumentId)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SearchContextResultResponse, len(results))
	for i, result := range results {
		neighbors := make([]*dto.NeighborChunkResponse, len(result.Neighbors))
		for j, neighbor := range result.Neighbors {
			neighbors[j] = &dto.NeighborChunkResponse{
				ChunkIndex: neighbor.ChunkIndex,
				Text:       neighbor.Text,
				Position:   neighbor.Position,
			}
		}
		responses[i] = &dto.SearchContextResultResponse{
			SearchResultResponse: *toSearchResultResponse(result.Result),
			Neighbors:            neighbors,
		}
	}

	return &dto.SearchWithContextResponse{
		Query:   req.Query,
		Results: responses,
		Total:   len(responses),
	}, nil
}

// Statistics reports corpus-level searchability: how much of the uploaded
// material has finished processing and carries embeddings.
func (s *searchService) Statistics(ctx context.Context) (*dto.SearchStatisticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documentRepo := uow.DocumentRepository()
	chunkRepo := uow.DocumentChunkRepository()

	totalDocuments, err := documentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	completedDocuments, err := documentRepo.Count(ctx, specification.ByProcessingStatus{Status: entity.DocumentStatusCompleted})
	if err != nil {
		return nil, err
	}
	totalChunks, err := chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	embeddedChunks, err := chunkRepo.Count(ctx, specification.WithEmbedding{})
	if err != nil {
		return nil, err
	}

	// Searchability is a chunk property: a document counts only as far as its
	// chunks carry embeddings.
	var searchablePercent, avgChunksPerDoc float64
	if totalChunks > 0 {
		searchablePercent = math.Round(float64(embeddedChunks)/float64(totalChunks)*10000) / 100
	}
	if totalDocuments > 0 {
		avgChunksPerDoc = math.Round(float64(totalChunks)/float64(totalDocuments)*100) / 100
	}

	return &dto.SearchStatisticsResponse{
		TotalDocuments:     totalDocuments,
		CompletedDocuments: completedDocuments,
		TotalChunks:        totalChunks,
		EmbeddedChunks:     embeddedChunks,
		SearchablePercent:  searchablePercent,
		AvgChunksPerDoc:    avgChunksPerDoc,
	}, nil
}

func (s *searchService) topK(requested int) int {
	if requested < 1 {
		return s.defaultTopK
	}
	return requested
}

func (s *searchService) toSearchResponse(query string, results []searchengine.Result) *dto.SearchResponse {
	responses := make([]*dto.SearchResultResponse, len(results))
	for i, result := range results {
		responses[i] = toSearchResultResponse(result)
	}
	return &dto.SearchResponse{
		Query:   query,
		Results: responses,
		Total:   len(responses),
	}
}

func toSearchResultResponse(result searchengine.Result) *dto.SearchResultResponse {
	return &dto.SearchResultResponse{
		ChunkId:       result.ChunkId,
		DocumentId:    result.DocumentId,
		DocumentName:  result.DocumentName,
		DocumentType:  result.DocumentType,
		UploadedAt:    result.UploadedAt,
		Text:          result.Text,
		ChunkIndex:    result.ChunkIndex,
		SemanticScore: result.SemanticScore,
		KeywordScore:  result.KeywordScore,
		CombinedScore: result.CombinedScore,
	}
}
