package mapper

import (
	"time"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:               d.Id,
		Filename:         d.Filename,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		FileHash:         d.FileHash,
		FilePath:         d.FilePath,
		CharacterCount:   d.CharacterCount,
		WordCount:        d.WordCount,
		ChunkCount:       d.ChunkCount,
		ProcessingStatus: d.ProcessingStatus,
		ErrorMessage:     d.ErrorMessage,
		UploadedAt:       d.UploadedAt,
		ProcessedAt:      d.ProcessedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:               d.Id,
		Filename:         d.Filename,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		FileHash:         d.FileHash,
		FilePath:         d.FilePath,
		CharacterCount:   d.CharacterCount,
		WordCount:        d.WordCount,
		ChunkCount:       d.ChunkCount,
		ProcessingStatus: d.ProcessingStatus,
		ErrorMessage:     d.ErrorMessage,
		UploadedAt:       d.UploadedAt,
		ProcessedAt:      d.ProcessedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
