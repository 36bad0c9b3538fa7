package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentProcessedType = "DOCUMENT_PROCESSED"
	DocumentFailedType    = "DOCUMENT_FAILED"
)

// NewDocumentProcessedEvent is emitted after a document's chunks and
// embeddings are committed.
func NewDocumentProcessedEvent(documentId uuid.UUID, filename string, chunkCount int) Event {
	return BaseEvent{
		Type: DocumentProcessedType,
		Data: map[string]interface{}{
			"document_id": documentId.String(),
			"filename":    filename,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentFailedEvent is emitted when ingestion fails after the document
// record was created.
func NewDocumentFailedEvent(documentId uuid.UUID, filename string, reason string) Event {
	return BaseEvent{
		Type: DocumentFailedType,
		Data: map[string]interface{}{
			"document_id": documentId.String(),
			"filename":    filename,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}
