package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	Id         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_document_chunk_unique,priority:1"`
	ChunkText  string           `gorm:"type:text;not null"`
	ChunkIndex int              `gorm:"not null;uniqueIndex:idx_document_chunk_unique,priority:2"`
	ChunkSize  int              `gorm:"not null"`
	Embedding  *pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small dimensions
	CreatedAt  time.Time        `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
