package rag

import (
	"context"
	"strings"
	"testing"

	"ai-docquery-be/pkg/llm"
	"ai-docquery-be/pkg/searchengine"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	results []searchengine.Result
}

func (f *fakeRetriever) Hybrid(_ context.Context, _ string, _ int, _ *uuid.UUID) ([]searchengine.Result, error) {
	return f.results, nil
}

type fakeGenerator struct {
	completion llm.Completion
	calls      int
	messages   []llm.Message
	options    llm.Options
}

func (f *fakeGenerator) Complete(_ context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	f.calls++
	f.messages = history
	f.options = llm.Options{}
	for _, opt := range opts {
		opt(&f.options)
	}
	return &f.completion, nil
}

func hit(name, text string, combined float64) searchengine.Result {
	return searchengine.Result{
		ChunkId:       uuid.New(),
		DocumentId:    uuid.New(),
		DocumentName:  name,
		Text:          text,
		CombinedScore: combined,
	}
}

func TestGenerate_ZeroResultsFallback(t *testing.T) {
	generator := &fakeGenerator{}
	orchestrator := NewOrchestrator(&fakeRetriever{}, generator, 0, 0)

	answer, err := orchestrator.Generate(context.Background(), GenerateRequest{Query: "anything"})
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, answer.ContextUsed)
	assert.Equal(t, "N/A", answer.Model)
	assert.Equal(t, 0, answer.TokensUsed)
	assert.Equal(t, 0, generator.calls, "the model must not be called on empty retrieval")
}

func TestGenerate_GroundedAnswer(t *testing.T) {
	retriever := &fakeRetriever{results: []searchengine.Result{
		hit("guide.md", "postgres stores vectors", 0.8123),
		hit("notes.txt", strings.Repeat("z", 300), 0.4),
	}}
	generator := &fakeGenerator{completion: llm.Completion{
		Text:        "Postgres stores vectors (Source 1).",
		Model:       "gpt-test",
		TotalTokens: 42,
	}}

	orchestrator := NewOrchestrator(retriever, generator, 6000, 10)

	temperature := 0.2
	answer, err := orchestrator.Generate(context.Background(), GenerateRequest{
		Query:       "how are vectors stored?",
		Temperature: &temperature,
	})
	require.NoError(t, err)

	assert.Equal(t, "Postgres stores vectors (Source 1).", answer.Answer)
	assert.Equal(t, "gpt-test", answer.Model)
	assert.Equal(t, 42, answer.TokensUsed)
	assert.Equal(t, 2, answer.ContextUsed)

	require.Len(t, answer.Sources, 2)
	assert.Equal(t, 1, answer.Sources[0].SourceNumber)
	assert.Equal(t, "guide.md", answer.Sources[0].DocumentName)
	assert.Equal(t, 0.8123, answer.Sources[0].RelevanceScore)
	assert.Len(t, answer.Sources[1].TextPreview, 200)

	// system prompt first, embedded context, query last
	require.Len(t, generator.messages, 2)
	assert.Equal(t, "system", generator.messages[0].Role)
	assert.Contains(t, generator.messages[0].Content, "[Source 1: guide.md]")
	assert.Equal(t, "user", generator.messages[1].Role)
	assert.Equal(t, "how are vectors stored?", generator.messages[1].Content)
}

func TestGenerate_HistoryTruncatedToLastFive(t *testing.T) {
	retriever := &fakeRetriever{results: []searchengine.Result{hit("a.txt", "text", 0.5)}}
	generator := &fakeGenerator{completion: llm.Completion{Text: "ok"}}

	orchestrator := NewOrchestrator(retriever, generator, 6000, 10)

	var history []Turn
	for i := 0; i < 8; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Turn{Role: role, Content: strings.Repeat("t", i+1)})
	}

	_, err := orchestrator.Generate(context.Background(), GenerateRequest{
		Query:   "next question",
		History: history,
	})
	require.NoError(t, err)

	// system + 5 history turns + current query
	require.Len(t, generator.messages, 7)
	assert.Equal(t, history[3].Content, generator.messages[1].Content)
	assert.Equal(t, history[7].Content, generator.messages[5].Content)
}

func TestGenerate_TemperatureZeroForwarded(t *testing.T) {
	retriever := &fakeRetriever{results: []searchengine.Result{hit("a.txt", "text", 0.5)}}
	generator := &fakeGenerator{completion: llm.Completion{Text: "ok"}}
	orchestrator := NewOrchestrator(retriever, generator, 6000, 10)

	temperature := 0.0
	_, err := orchestrator.Generate(context.Background(), GenerateRequest{
		Query:       "q",
		Temperature: &temperature,
	})
	require.NoError(t, err)

	require.NotNil(t, generator.options.Temperature, "an explicit temperature of 0 must reach the provider")
	assert.Equal(t, 0.0, *generator.options.Temperature)
}

func TestGenerate_TemperatureUnsetLeftToProvider(t *testing.T) {
	retriever := &fakeRetriever{results: []searchengine.Result{hit("a.txt", "text", 0.5)}}
	generator := &fakeGenerator{completion: llm.Completion{Text: "ok"}}
	orchestrator := NewOrchestrator(retriever, generator, 6000, 10)

	_, err := orchestrator.Generate(context.Background(), GenerateRequest{Query: "q"})
	require.NoError(t, err)

	assert.Nil(t, generator.options.Temperature)
}

func TestGenerate_SourcesCapped(t *testing.T) {
	var results []searchengine.Result
	for i := 0; i < 15; i++ {
		results = append(results, hit("doc.txt", "chunk", 0.5))
	}

	retriever := &fakeRetriever{results: results}
	generator := &fakeGenerator{completion: llm.Completion{Text: "ok"}}
	orchestrator := NewOrchestrator(retriever, generator, 6000, DefaultMaxSources)

	answer, err := orchestrator.Generate(context.Background(), GenerateRequest{Query: "q"})
	require.NoError(t, err)

	assert.Len(t, answer.Sources, DefaultMaxSources)
	assert.Equal(t, 15, answer.ContextUsed)
}
