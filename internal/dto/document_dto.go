package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishIngestDocumentMessage is the queue payload that triggers background
// ingestion of an uploaded document.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type UploadDocumentResponse struct {
	Id               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	ProcessingStatus string    `json:"processing_status"`
	Duplicate        bool      `json:"duplicate"`
}

type DocumentResponse struct {
	Id               uuid.UUID  `json:"id"`
	Filename         string     `json:"filename"`
	FileType         string     `json:"file_type"`
	FileSize         int64      `json:"file_size"`
	CharacterCount   int        `json:"character_count"`
	WordCount        int        `json:"word_count"`
	ChunkCount       int        `json:"chunk_count"`
	ProcessingStatus string     `json:"processing_status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
}

type DocumentStatusResponse struct {
	Id               uuid.UUID  `json:"id"`
	ProcessingStatus string     `json:"processing_status"`
	ChunkCount       int        `json:"chunk_count"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

type DocumentChunkResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkIndex int       `json:"chunk_index"`
	ChunkText  string    `json:"chunk_text"`
	ChunkSize  int       `json:"chunk_size"`
}

type DocumentChunksResponse struct {
	DocumentId uuid.UUID                `json:"document_id"`
	Chunks     []*DocumentChunkResponse `json:"chunks"`
}
