package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ByFileHash struct {
	Hash string
}

func (s ByFileHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_hash = ?", s.Hash)
}

type ByProcessingStatus struct {
	Status string
}

func (s ByProcessingStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("processing_status = ?", s.Status)
}

// WithEmbedding keeps only chunks that have been embedded.
type WithEmbedding struct{}

func (s WithEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embedding IS NOT NULL")
}
