package searchengine

import (
	"time"

	"github.com/google/uuid"
)

// Result is the per-query search hit. It is ephemeral, never persisted.
type Result struct {
	ChunkId       uuid.UUID
	DocumentId    uuid.UUID
	DocumentName  string
	DocumentType  string
	UploadedAt    time.Time
	Text          string
	ChunkIndex    int
	SemanticScore float64
	KeywordScore  float64
	CombinedScore float64
}

// RelevanceScore prefers the fused score, falling back to the semantic
// similarity for results that never went through hybrid merging.
func (r Result) RelevanceScore() float64 {
	if r.CombinedScore != 0 {
		return r.CombinedScore
	}
	return r.SemanticScore
}

// NeighborChunk is a chunk adjacent to a hit, attached by WithContext.
type NeighborChunk struct {
	ChunkIndex int
	Text       string
	Position   string // "before" or "after"
}

// ContextResult is a hit expanded with its neighboring chunks.
type ContextResult struct {
	Result
	Neighbors []NeighborChunk
}
