package integration

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/internal/repository/unitofwork"
	"ai-docquery-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, database.Migrate(gormDB))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	ctx := context.Background()

	t.Run("Check Document Repository", func(t *testing.T) {
		count, err := uow.DocumentRepository().Count(ctx)
		assert.NoError(t, err)
		t.Logf("Document count: %d", count)
	})

	t.Run("Document Lifecycle", func(t *testing.T) {
		document := &entity.Document{
			Id:               uuid.New(),
			Filename:         "integration-test.txt",
			FileType:         ".txt",
			FileSize:         42,
			FileHash:         "integration-" + uuid.New().String(),
			ProcessingStatus: entity.DocumentStatusPending,
			UploadedAt:       time.Now(),
		}

		require.NoError(t, uow.DocumentRepository().Create(ctx, document))
		defer uow.DocumentRepository().Delete(ctx, document.Id)

		// dedup lookup finds the record by hash
		found, err := uow.DocumentRepository().FindOne(ctx, specification.ByFileHash{Hash: document.FileHash})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, document.Id, found.Id)

		// status transitions
		require.NoError(t, uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusProcessing, nil, nil))

		processedAt := time.Now()
		require.NoError(t, uow.DocumentRepository().UpdateStatus(ctx, document.Id, entity.DocumentStatusCompleted, nil, &processedAt))

		found, err = uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: document.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.DocumentStatusCompleted, found.ProcessingStatus)
		assert.NotNil(t, found.ProcessedAt)
	})

	t.Run("Transactional Chunk Replace", func(t *testing.T) {
		document := &entity.Document{
			Id:               uuid.New(),
			Filename:         "chunked.txt",
			FileType:         ".txt",
			FileHash:         "integration-" + uuid.New().String(),
			ProcessingStatus: entity.DocumentStatusProcessing,
			UploadedAt:       time.Now(),
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, document))
		defer uow.DocumentRepository().Delete(ctx, document.Id)

		txUow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))
		defer txUow.Rollback()

		chunks := []*entity.DocumentChunk{
			{
				Id:         uuid.New(),
				DocumentId: document.Id,
				ChunkText:  strings.Repeat("alpha ", 10),
				ChunkIndex: 0,
				ChunkSize:  60,
				CreatedAt:  time.Now(),
			},
			{
				Id:         uuid.New(),
				DocumentId: document.Id,
				ChunkText:  strings.Repeat("beta ", 10),
				ChunkIndex: 1,
				ChunkSize:  50,
				CreatedAt:  time.Now(),
			},
		}

		require.NoError(t, txUow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id))
		require.NoError(t, txUow.DocumentChunkRepository().CreateBulk(ctx, chunks))
		require.NoError(t, txUow.DocumentRepository().UpdateChunkCount(ctx, document.Id, len(chunks)))
		require.NoError(t, txUow.Commit())

		stored, err := uow.DocumentChunkRepository().FindByDocumentId(ctx, document.Id)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, 0, stored[0].ChunkIndex)
		assert.Equal(t, 1, stored[1].ChunkIndex)

		// cleanup
		assert.NoError(t, uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id))
	})
}
