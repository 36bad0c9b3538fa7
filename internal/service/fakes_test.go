package service

import (
	"context"
	"errors"
	"time"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/internal/repository/contract"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type stubLogger struct{}

func (stubLogger) Debug(string, string, map[string]interface{}) {}
func (stubLogger) Info(string, string, map[string]interface{})  {}
func (stubLogger) Warn(string, string, map[string]interface{})  {}
func (stubLogger) Error(string, string, map[string]interface{}) {}
func (stubLogger) Sync() error                                  { return nil }

var _ logger.ILogger = stubLogger{}

type statusUpdate struct {
	Status       string
	ErrorMessage *string
	ProcessedAt  *time.Time
}

type fakeDocumentRepository struct {
	document       *entity.Document
	totalCount     int64
	completedCount int64

	created       []*entity.Document
	updated       []*entity.Document
	statusUpdates []statusUpdate
	chunkCounts   []int
}

func (r *fakeDocumentRepository) Create(_ context.Context, document *entity.Document) error {
	r.created = append(r.created, document)
	return nil
}

func (r *fakeDocumentRepository) Update(_ context.Context, document *entity.Document) error {
	r.updated = append(r.updated, document)
	return nil
}

func (r *fakeDocumentRepository) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeDocumentRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if byHash, ok := spec.(specification.ByFileHash); ok {
			if r.document != nil && r.document.FileHash == byHash.Hash {
				return r.document, nil
			}
			return nil, nil
		}
	}
	return r.document, nil
}

func (r *fakeDocumentRepository) FindAll(context.Context, ...specification.Specification) ([]*entity.Document, error) {
	if r.document == nil {
		return nil, nil
	}
	return []*entity.Document{r.document}, nil
}

func (r *fakeDocumentRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	for _, spec := range specs {
		if _, ok := spec.(specification.ByProcessingStatus); ok {
			return r.completedCount, nil
		}
	}
	return r.totalCount, nil
}

func (r *fakeDocumentRepository) UpdateStatus(_ context.Context, _ uuid.UUID, status string, errorMessage *string, processedAt *time.Time) error {
	r.statusUpdates = append(r.statusUpdates, statusUpdate{
		Status:       status,
		ErrorMessage: errorMessage,
		ProcessedAt:  processedAt,
	})
	return nil
}

func (r *fakeDocumentRepository) UpdateChunkCount(_ context.Context, _ uuid.UUID, chunkCount int) error {
	r.chunkCounts = append(r.chunkCounts, chunkCount)
	return nil
}

var _ contract.DocumentRepository = &fakeDocumentRepository{}

type fakeDocumentChunkRepository struct {
	totalCount    int64
	embeddedCount int64

	createdBulk [][]*entity.DocumentChunk
	deletedFor  []uuid.UUID
}

func (r *fakeDocumentChunkRepository) Create(context.Context, *entity.DocumentChunk) error {
	return nil
}

func (r *fakeDocumentChunkRepository) CreateBulk(_ context.Context, chunks []*entity.DocumentChunk) error {
	r.createdBulk = append(r.createdBulk, chunks)
	return nil
}

func (r *fakeDocumentChunkRepository) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	r.deletedFor = append(r.deletedFor, documentId)
	return nil
}

func (r *fakeDocumentChunkRepository) FindOne(context.Context, ...specification.Specification) (*entity.DocumentChunk, error) {
	return nil, nil
}

func (r *fakeDocumentChunkRepository) FindAll(context.Context, ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (r *fakeDocumentChunkRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	for _, spec := range specs {
		if _, ok := spec.(specification.WithEmbedding); ok {
			return r.embeddedCount, nil
		}
	}
	return r.totalCount, nil
}

func (r *fakeDocumentChunkRepository) FindByDocumentId(context.Context, uuid.UUID) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (r *fakeDocumentChunkRepository) SearchNearestWithScore(context.Context, []float32, int, *uuid.UUID) ([]*contract.ScoredChunk, error) {
	return nil, nil
}

func (r *fakeDocumentChunkRepository) FindContaining(context.Context, string, *uuid.UUID, int) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

var _ contract.DocumentChunkRepository = &fakeDocumentChunkRepository{}

type fakeUnitOfWork struct {
	documents *fakeDocumentRepository
	chunks    *fakeDocumentChunkRepository

	begins    int
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.begins++; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error             { u.rollbacks++; return nil }

func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return u.documents }
func (u *fakeUnitOfWork) DocumentChunkRepository() contract.DocumentChunkRepository {
	return u.chunks
}

var _ unitofwork.UnitOfWork = &fakeUnitOfWork{}

type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newFakeFactory() *fakeRepositoryFactory {
	return &fakeRepositoryFactory{uow: &fakeUnitOfWork{
		documents: &fakeDocumentRepository{},
		chunks:    &fakeDocumentChunkRepository{},
	}}
}

type failingPublisher struct {
	err error
}

func (p *failingPublisher) Publish(context.Context, []byte) error {
	if p.err != nil {
		return p.err
	}
	return errors.New("publish failed")
}

type failingEmbedder struct {
	err error
}

func (e *failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, e.err
}

func (e *failingEmbedder) EmbedOne(context.Context, string) ([]float32, error) {
	return nil, e.err
}
