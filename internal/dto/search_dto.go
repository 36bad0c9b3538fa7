package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchRequest struct {
	Query      string     `json:"query" validate:"required"`
	TopK       int        `json:"top_k" validate:"omitempty,min=1,max=50"`
	DocumentId *uuid.UUID `json:"document_id"`
}

type SearchWithContextRequest struct {
	Query         string     `json:"query" validate:"required"`
	TopK          int        `json:"top_k" validate:"omitempty,min=1,max=50"`
	ContextWindow int        `json:"context_window" validate:"omitempty,min=1,max=5"`
	DocumentId    *uuid.UUID `json:"document_id"`
}

type SearchResultResponse struct {
	ChunkId       uuid.UUID `json:"chunk_id"`
	DocumentId    uuid.UUID `json:"document_id"`
	DocumentName  string    `json:"document_name"`
	DocumentType  string    `json:"document_type,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at,omitempty"`
	Text          string    `json:"text"`
	ChunkIndex    int       `json:"chunk_index"`
	SemanticScore float64   `json:"semantic_score"`
	KeywordScore  float64   `json:"keyword_score"`
	CombinedScore float64   `json:"combined_score"`
}

type SearchResponse struct {
	Query   string                  `json:"query"`
	Results []*SearchResultResponse `json:"results"`
	Total   int                     `json:"total"`
}

type NeighborChunkResponse struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Position   string `json:"position"`
}

type SearchContextResultResponse struct {
	SearchResultResponse
	Neighbors []*NeighborChunkResponse `json:"neighbors"`
}

type SearchWithContextResponse struct {
	Query   string                         `json:"query"`
	Results []*SearchContextResultResponse `json:"results"`
	Total   int                            `json:"total"`
}

type SearchStatisticsResponse struct {
	TotalDocuments     int64   `json:"total_documents"`
	CompletedDocuments int64   `json:"completed_documents"`
	TotalChunks        int64   `json:"total_chunks"`
	EmbeddedChunks     int64   `json:"embedded_chunks"`
	SearchablePercent  float64 `json:"searchable_percent"`
	AvgChunksPerDoc    float64 `json:"avg_chunks_per_doc"`
}
