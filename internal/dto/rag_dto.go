package dto

import "github.com/google/uuid"

type ConversationTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type AskRequest struct {
	Query       string             `json:"query" validate:"required"`
	History     []ConversationTurn `json:"history" validate:"omitempty,dive"`
	DocumentId  *uuid.UUID         `json:"document_id"`
	TopK        int                `json:"top_k" validate:"omitempty,min=1,max=50"`
	Temperature *float64           `json:"temperature" validate:"omitempty,min=0,max=2"`
	MaxTokens   int                `json:"max_tokens" validate:"omitempty,min=1,max=8192"`
}

type SourceResponse struct {
	SourceNumber   int       `json:"source_number"`
	DocumentName   string    `json:"document_name"`
	DocumentId     uuid.UUID `json:"document_id"`
	ChunkIndex     int       `json:"chunk_index"`
	RelevanceScore float64   `json:"relevance_score"`
	TextPreview    string    `json:"text_preview"`
}

type RagHealthResponse struct {
	Status            string `json:"status"`
	LLMProvider       string `json:"llm_provider"`
	LLMModel          string `json:"llm_model"`
	EmbeddingProvider string `json:"embedding_provider"`
	EmbeddingModel    string `json:"embedding_model"`
}

type AskResponse struct {
	Answer       string            `json:"answer"`
	Sources      []*SourceResponse `json:"sources"`
	ContextUsed  int               `json:"context_used"`
	Model        string            `json:"model"`
	TokensUsed   int               `json:"tokens_used"`
	QualityScore float64           `json:"quality_score"`
}
