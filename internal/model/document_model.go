package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename         string    `gorm:"size:255;not null"`
	FileType         string    `gorm:"size:10;not null"`
	FileSize         int64     `gorm:"not null"`
	FileHash         string    `gorm:"size:64;uniqueIndex;not null"`
	FilePath         string    `gorm:"type:text;not null"`
	CharacterCount   int
	WordCount        int
	ChunkCount       int        `gorm:"default:0"`
	ProcessingStatus string     `gorm:"size:20;default:pending;index"`
	ErrorMessage     string     `gorm:"type:text"`
	UploadedAt       time.Time  `gorm:"autoCreateTime"`
	ProcessedAt      *time.Time
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
