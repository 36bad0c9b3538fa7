package entity

import (
	"time"

	"github.com/google/uuid"
)

// Processing lifecycle of an uploaded document. Transitions are forward only:
// pending -> processing -> completed | failed. A failed document stays failed.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	Id               uuid.UUID
	Filename         string
	FileType         string
	FileSize         int64
	FileHash         string
	FilePath         string
	CharacterCount   int
	WordCount        int
	ChunkCount       int
	ProcessingStatus string
	ErrorMessage     string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
	UpdatedAt        *time.Time
}
