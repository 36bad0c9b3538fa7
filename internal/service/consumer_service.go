package service

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"ai-docquery-be/internal/dto"
	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/pkg/logger"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/internal/repository/unitofwork"
	"ai-docquery-be/pkg/chunker"
	"ai-docquery-be/pkg/embedding"
	"ai-docquery-be/pkg/events"
	pktNats "ai-docquery-be/pkg/nats"
	"ai-docquery-be/pkg/parser"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	splitter          *chunker.Splitter
	textParser        *parser.TextParser
	eventPublisher    *pktNats.Publisher
	batchSize         int
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	splitter *chunker.Splitter,
	textParser *parser.TextParser,
	eventPublisher *pktNats.Publisher,
	batchSize int,
	logger logger.ILogger,
) IConsumerService {
	if batchSize < 1 {
		batchSize = 100
	}
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		splitter:          splitter,
		textParser:        textParser,
		eventPublisher:    eventPublisher,
		batchSize:         batchSize,
		logger:            logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage runs the full ingestion of one document: parse, chunk,
// embed in bounded batches, persist chunks transactionally. Any failure past
// the pending state leaves the document terminally failed with the cause
// recorded; it never crashes the consumer.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer-service", "failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer-service", "processing document", map[string]interface{}{
		"document_id": payload.DocumentId,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("consumer-service", "failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		cs.logger.Warn("consumer-service", "document not found, dropping message", map[string]interface{}{
			"document_id": payload.DocumentId,
		})
		msg.Ack() // Document deleted? Ack.
		return
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusProcessing, nil, nil); err != nil {
		cs.logger.Error("consumer-service", "failed to mark processing", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	parsed, err := cs.textParser.Parse(document.FilePath)
	if err != nil {
		cs.failDocument(ctx, uow, document, "parse failed: "+err.Error())
		msg.Ack()
		return
	}

	document.CharacterCount = parsed.CharacterCount
	document.WordCount = parsed.WordCount
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		cs.logger.Error("consumer-service", "failed to store document counts", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	chunks := cs.splitter.Split(parsed.Content)
	cs.logger.Info("consumer-service", "document split into chunks", map[string]interface{}{
		"document_id": document.Id,
		"chunks":      len(chunks),
	})

	vectors, err := cs.embedChunks(ctx, chunks)
	if err != nil {
		cs.failDocument(ctx, uow, document, "embedding failed: "+err.Error())
		msg.Ack()
		return
	}

	newChunks := make([]*entity.DocumentChunk, len(chunks))
	for i, chunkText := range chunks {
		newChunks[i] = &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: document.Id,
			ChunkText:  chunkText,
			ChunkIndex: i,
			ChunkSize:  utf8.RuneCountInString(chunkText),
			Embedding:  vectors[i],
			CreatedAt:  time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer-service", "failed to begin transaction", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Reingestion replaces any chunks from a previous attempt wholesale so
	// indices stay contiguous.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		cs.logger.Error("consumer-service", "failed to delete old chunks", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			cs.logger.Error("consumer-service", "failed to create chunks", map[string]interface{}{
				"document_id": document.Id,
				"error":       err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.DocumentRepository().UpdateChunkCount(ctx, document.Id, len(newChunks)); err != nil {
		cs.logger.Error("consumer-service", "failed to update chunk count", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	processedAt := time.Now()
	if err := uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusCompleted, nil, &processedAt); err != nil {
		cs.logger.Error("consumer-service", "failed to mark completed", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer-service", "failed to commit transaction", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.publishEvent(ctx, events.NewDocumentProcessedEvent(document.Id, document.Filename, len(newChunks)))

	cs.logger.Info("consumer-service", "document processed", map[string]interface{}{
		"document_id": document.Id,
		"chunks":      len(newChunks),
	})
	msg.Ack()
}

// embedChunks requests embeddings in bounded batches and concatenates the
// vectors in input order.
func (cs *consumerService) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += cs.batchSize {
		end := start + cs.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch, err := cs.embeddingProvider.EmbedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (cs *consumerService) failDocument(ctx context.Context, uow unitofwork.UnitOfWork, document *entity.Document, reason string) {
	cs.logger.Error("consumer-service", "document ingestion failed", map[string]interface{}{
		"document_id": document.Id,
		"reason":      reason,
	})

	if err := uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusFailed, &reason, nil); err != nil {
		cs.logger.Error("consumer-service", "failed to mark document failed", map[string]interface{}{
			"document_id": document.Id,
			"error":       err.Error(),
		})
	}

	cs.publishEvent(ctx, events.NewDocumentFailedEvent(document.Id, document.Filename, reason))
}

// publishEvent sends a lifecycle event to NATS. Eventing is auxiliary, a
// publish failure is logged and ignored.
func (cs *consumerService) publishEvent(ctx context.Context, event events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("consumer-service", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
