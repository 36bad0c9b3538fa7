package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/internal/pkg/serverutils"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/internal/repository/unitofwork"
	"ai-docquery-be/pkg/utils"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Status(ctx context.Context, id uuid.UUID) (*dto.DocumentStatusResponse, error)
	Chunks(ctx context.Context, id uuid.UUID) (*dto.DocumentChunksResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	fileHandler      *utils.FileHandler
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	fileHandler *utils.FileHandler,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		fileHandler:      fileHandler,
		logger:           logger,
	}
}

// Upload accepts the file, records the document as pending and hands
// ingestion to the background consumer. Duplicate content (same hash) is
// detected before any chunking work is queued.
func (s *documentService) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadDocumentResponse, error) {
	if err := s.fileHandler.Validate(fileHeader); err != nil {
		return nil, serverutils.NewBadRequestError(err.Error())
	}

	content, err := s.fileHandler.Read(fileHeader)
	if err != nil {
		return nil, err
	}
	hash := s.fileHandler.Hash(content)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.DocumentRepository().FindOne(ctx, specification.ByFileHash{Hash: hash})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("document-service", "duplicate upload detected", map[string]interface{}{
			"document_id": existing.Id,
			"filename":    fileHeader.Filename,
		})
		return &dto.UploadDocumentResponse{
			Id:               existing.Id,
			Filename:         existing.Filename,
			ProcessingStatus: existing.ProcessingStatus,
			Duplicate:        true,
		}, nil
	}

	path, err := s.fileHandler.Store(fileHeader.Filename, content)
	if err != nil {
		return nil, err
	}

	document := entity.Document{
		Id:               uuid.New(),
		Filename:         fileHeader.Filename,
		FileType:         strings.ToLower(filepath.Ext(fileHeader.Filename)),
		FileSize:         fileHeader.Size,
		FileHash:         hash,
		FilePath:         path,
		ProcessingStatus: entity.DocumentStatusPending,
		UploadedAt:       time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	msgJson, err := json.Marshal(dto.PublishIngestDocumentMessage{DocumentId: document.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		// The row is already persisted; a pending document nothing will ever
		// pick up is worse than a visible failure.
		reason := "failed to queue ingestion: " + err.Error()
		if updateErr := uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusFailed, &reason, nil); updateErr != nil {
			s.logger.Error("document-service", "failed to mark document failed", map[string]interface{}{
				"document_id": document.Id,
				"error":       updateErr.Error(),
			})
		}
		s.logger.Error("document-service", "failed to publish ingest message", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		return nil, serverutils.NewUpstreamError("failed to queue document for processing", err)
	}

	s.logger.Info("document-service", "document accepted for ingestion", map[string]interface{}{
		"document_id": document.Id,
		"filename":    document.Filename,
		"size":        document.FileSize,
	})

	return &dto.UploadDocumentResponse{
		Id:               document.Id,
		Filename:         document.Filename,
		ProcessingStatus: document.ProcessingStatus,
		Duplicate:        false,
	}, nil
}

func (s *documentService) List(ctx context.Context, limit, offset int) (*dto.ListDocumentsResponse, error) {
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.DocumentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "uploaded_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, len(documents))
	for i, document := range documents {
		responses[i] = toDocumentResponse(document)
	}

	return &dto.ListDocumentsResponse{
		Documents: responses,
		Total:     total,
	}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	document, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(document), nil
}

func (s *documentService) Status(ctx context.Context, id uuid.UUID) (*dto.DocumentStatusResponse, error) {
	document, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.DocumentStatusResponse{
		Id:               document.Id,
		ProcessingStatus: document.ProcessingStatus,
		ChunkCount:       document.ChunkCount,
		ErrorMessage:     document.ErrorMessage,
		ProcessedAt:      document.ProcessedAt,
	}, nil
}

func (s *documentService) Chunks(ctx context.Context, id uuid.UUID) (*dto.DocumentChunksResponse, error) {
	document, err := s.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().FindByDocumentId(ctx, document.Id)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentChunkResponse, len(chunks))
	for i, chunk := range chunks {
		responses[i] = &dto.DocumentChunkResponse{
			Id:         chunk.Id,
			ChunkIndex: chunk.ChunkIndex,
			ChunkText:  chunk.ChunkText,
			ChunkSize:  chunk.ChunkSize,
		}
	}

	return &dto.DocumentChunksResponse{
		DocumentId: document.Id,
		Chunks:     responses,
	}, nil
}

// Delete removes the document, its chunks and the stored file. Chunk and
// document rows go in one transaction, the file cleanup follows after commit.
func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	document, err := s.findDocument(ctx, id)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, document.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if err := s.fileHandler.Remove(document.FilePath); err != nil {
		s.logger.Warn("document-service", "failed to remove stored file", map[string]interface{}{
			"document_id": document.Id,
			"path":        document.FilePath,
			"error":       err.Error(),
		})
	}

	s.logger.Info("document-service", "document deleted", map[string]interface{}{
		"document_id": document.Id,
	})
	return nil
}

func (s *documentService) findDocument(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, serverutils.NewNotFoundError("document not found")
	}
	return document, nil
}

func toDocumentResponse(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:               document.Id,
		Filename:         document.Filename,
		FileType:         document.FileType,
		FileSize:         document.FileSize,
		CharacterCount:   document.CharacterCount,
		WordCount:        document.WordCount,
		ChunkCount:       document.ChunkCount,
		ProcessingStatus: document.ProcessingStatus,
		ErrorMessage:     document.ErrorMessage,
		UploadedAt:       document.UploadedAt,
		ProcessedAt:      document.ProcessedAt,
	}
}
