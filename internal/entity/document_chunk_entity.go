package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one overlapping segment of a document. (DocumentId,
// ChunkIndex) is unique and indices form a contiguous 0..N-1 sequence once
// processing completes. Embedding is nil until the chunk has been embedded;
// such chunks are excluded from vector search.
type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkText  string
	ChunkIndex int
	ChunkSize  int
	Embedding  []float32
	CreatedAt  time.Time
}
