package contract

import (
	"context"
	"time"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Status/chunk-count writes are single-row updates: atomic by construction,
	// no partial state is ever visible to readers.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errorMessage *string, processedAt *time.Time) error
	UpdateChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error
}
