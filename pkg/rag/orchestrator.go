package rag

import (
	"context"
	"fmt"

	"ai-docquery-be/pkg/llm"
	"ai-docquery-be/pkg/searchengine"

	"github.com/google/uuid"
)

const (
	// DefaultMaxSources caps the sources attached to an answer.
	DefaultMaxSources = 10

	// maxHistoryTurns bounds how much conversation history reaches the model.
	maxHistoryTurns = 5

	previewLength = 200
)

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string
	Content string
}

// Source attributes part of an answer to a retrieved chunk.
type Source struct {
	SourceNumber   int
	DocumentName   string
	DocumentId     uuid.UUID
	ChunkIndex     int
	RelevanceScore float64
	TextPreview    string
}

// Answer is the full generation result returned to the caller.
type Answer struct {
	Answer      string
	Sources     []Source
	ContextUsed int
	Model       string
	TokensUsed  int
}

// GenerateRequest carries the query plus generation knobs. Temperature is a
// pointer because 0 is a valid setting; nil leaves the provider default.
type GenerateRequest struct {
	Query       string
	History     []Turn
	DocumentId  *uuid.UUID
	TopK        int
	Temperature *float64
	MaxTokens   int
}

// Retriever is the slice of the search engine the orchestrator depends on.
type Retriever interface {
	Hybrid(ctx context.Context, query string, topK int, documentId *uuid.UUID) ([]searchengine.Result, error)
}

// Orchestrator wires retrieval, context assembly and generation into the
// question-answering flow. It is stateless and safe for concurrent use.
type Orchestrator struct {
	retriever       Retriever
	generator       llm.Provider
	maxContextChars int
	maxSources      int
}

func NewOrchestrator(retriever Retriever, generator llm.Provider, maxContextChars, maxSources int) *Orchestrator {
	if maxContextChars <= 0 {
		maxContextChars = DefaultMaxContextChars
	}
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}
	return &Orchestrator{
		retriever:       retriever,
		generator:       generator,
		maxContextChars: maxContextChars,
		maxSources:      maxSources,
	}
}

// Generate answers the query grounded on hybrid retrieval. Zero retrieval
// results short-circuit to a fixed fallback without touching the model.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (*Answer, error) {
	topK := req.TopK
	if topK < 1 {
		topK = 5
	}

	results, err := o.retriever.Hybrid(ctx, req.Query, topK, req.DocumentId)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	if len(results) == 0 {
		return &Answer{
			Answer:      FallbackAnswer,
			Sources:     []Source{},
			ContextUsed: 0,
			Model:       "N/A",
			TokensUsed:  0,
		}, nil
	}

	assembled := AssembleContext(results, o.maxContextChars)

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: BuildSystemPrompt(assembled),
	})

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{Role: "user", Content: req.Query})

	var opts []llm.Option
	if req.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(req.MaxTokens))
	}

	completion, err := o.generator.Complete(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{
		Answer:      completion.Text,
		Sources:     ExtractSources(results, o.maxSources),
		ContextUsed: len(results),
		Model:       completion.Model,
		TokensUsed:  completion.TotalTokens,
	}, nil
}

// ExtractSources converts the top retrieved chunks into presentation
// sources, numbered from 1 in retrieval order.
func ExtractSources(results []searchengine.Result, maxSources int) []Source {
	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}
	if len(results) > maxSources {
		results = results[:maxSources]
	}

	sources := make([]Source, 0, len(results))
	for i, result := range results {
		sources = append(sources, Source{
			SourceNumber:   i + 1,
			DocumentName:   result.DocumentName,
			DocumentId:     result.DocumentId,
			ChunkIndex:     result.ChunkIndex,
			RelevanceScore: result.RelevanceScore(),
			TextPreview:    preview(result.Text),
		})
	}
	return sources
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}
