package contract

import (
	"context"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredChunk wraps DocumentChunk with its cosine similarity to a query vector
type ScoredChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindByDocumentId returns all chunks of a document ordered by chunk_index.
	FindByDocumentId(ctx context.Context, documentId uuid.UUID) ([]*entity.DocumentChunk, error)
	// SearchNearestWithScore returns the chunks nearest to the query vector by
	// cosine distance, ascending, converted to similarity = 1 - distance.
	// Chunks without an embedding are excluded. documentId optionally narrows
	// the search to one document.
	SearchNearestWithScore(ctx context.Context, embedding []float32, limit int, documentId *uuid.UUID) ([]*ScoredChunk, error)
	// FindContaining returns chunks whose text contains the term
	// (case-insensitive), ordered by chunk_index, capped at limit.
	FindContaining(ctx context.Context, term string, documentId *uuid.UUID, limit int) ([]*entity.DocumentChunk, error)
}
