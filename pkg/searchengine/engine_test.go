package searchengine

import (
	"context"
	"strings"
	"testing"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/repository/contract"
	"ai-docquery-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedOne(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeChunkIndex struct {
	scored      []*contract.ScoredChunk
	matches     []*entity.DocumentChunk
	chunksByDoc map[uuid.UUID][]*entity.DocumentChunk
}

func (f *fakeChunkIndex) SearchNearestWithScore(_ context.Context, _ []float32, limit int, _ *uuid.UUID) ([]*contract.ScoredChunk, error) {
	if limit > len(f.scored) {
		limit = len(f.scored)
	}
	return f.scored[:limit], nil
}

func (f *fakeChunkIndex) FindContaining(_ context.Context, term string, _ *uuid.UUID, limit int) ([]*entity.DocumentChunk, error) {
	var out []*entity.DocumentChunk
	for _, chunk := range f.matches {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(chunk.ChunkText), term) {
			out = append(out, chunk)
		}
	}
	return out, nil
}

func (f *fakeChunkIndex) FindByDocumentId(_ context.Context, documentId uuid.UUID) ([]*entity.DocumentChunk, error) {
	return f.chunksByDoc[documentId], nil
}

type fakeDocuments struct {
	docs map[uuid.UUID]*entity.Document
}

func (f *fakeDocuments) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.docs[byID.ID], nil
		}
	}
	return nil, nil
}

func newChunk(docId uuid.UUID, index int, text string) *entity.DocumentChunk {
	return &entity.DocumentChunk{
		Id:         uuid.New(),
		DocumentId: docId,
		ChunkText:  text,
		ChunkIndex: index,
		ChunkSize:  len(text),
	}
}

// --- Tests ---

func TestNewEngine_InvalidWeights(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"both zero", Options{SemanticWeight: 0, KeywordWeight: 0}},
		{"negative semantic", Options{SemanticWeight: -1, KeywordWeight: 1}},
		{"negative keyword", Options{SemanticWeight: 1, KeywordWeight: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(&fakeChunkIndex{}, &fakeDocuments{}, &fakeEmbedder{}, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestSemantic_RanksAndAttributes(t *testing.T) {
	docId := uuid.New()
	doc := &entity.Document{Id: docId, Filename: "guide.md", FileType: ".md"}

	orphanChunk := newChunk(uuid.New(), 0, "orphan text")
	chunks := []*contract.ScoredChunk{
		{Chunk: newChunk(docId, 0, "first"), Similarity: 0.91236},
		{Chunk: orphanChunk, Similarity: 0.8},
		{Chunk: newChunk(docId, 1, "third"), Similarity: 0.5},
	}

	engine, err := NewEngine(
		&fakeChunkIndex{scored: chunks},
		&fakeDocuments{docs: map[uuid.UUID]*entity.Document{docId: doc}},
		&fakeEmbedder{vector: []float32{1, 0}},
		Options{SemanticWeight: 0.7, KeywordWeight: 0.3},
	)
	require.NoError(t, err)

	results, err := engine.Semantic(context.Background(), "query", 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0.9124, results[0].SemanticScore)
	assert.Equal(t, "guide.md", results[0].DocumentName)
	assert.Equal(t, ".md", results[0].DocumentType)

	// a chunk whose document is gone still surfaces, attributed to Unknown
	assert.Equal(t, "Unknown", results[1].DocumentName)
}

func TestSemantic_MinSimilarityFilter(t *testing.T) {
	docId := uuid.New()
	chunks := []*contract.ScoredChunk{
		{Chunk: newChunk(docId, 0, "strong"), Similarity: 0.9},
		{Chunk: newChunk(docId, 1, "weak"), Similarity: 0.2},
	}

	engine, err := NewEngine(
		&fakeChunkIndex{scored: chunks},
		&fakeDocuments{},
		&fakeEmbedder{vector: []float32{1}},
		Options{SemanticWeight: 1, MinSimilarity: 0.5},
	)
	require.NoError(t, err)

	results, err := engine.Semantic(context.Background(), "query", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "strong", results[0].Text)
}

func TestKeyword_FrequencyScoring(t *testing.T) {
	docId := uuid.New()
	index := &fakeChunkIndex{
		matches: []*entity.DocumentChunk{
			newChunk(docId, 0, "redis is fast. redis is simple. redis scales."),
			newChunk(docId, 1, strings.Repeat("redis ", 15)),
			newChunk(docId, 2, "nothing relevant here"),
		},
	}

	engine, err := NewEngine(index, &fakeDocuments{}, &fakeEmbedder{}, Options{SemanticWeight: 0.7, KeywordWeight: 0.3})
	require.NoError(t, err)

	results, err := engine.Keyword(context.Background(), "Redis", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0.3, results[0].KeywordScore)
	assert.Equal(t, 1.0, results[1].KeywordScore) // saturates at ten occurrences
}

func TestKeyword_EmptyQuery(t *testing.T) {
	engine, err := NewEngine(&fakeChunkIndex{}, &fakeDocuments{}, &fakeEmbedder{}, Options{SemanticWeight: 1, KeywordWeight: 1})
	require.NoError(t, err)

	results, err := engine.Keyword(context.Background(), "   ", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHybrid_MergesAndRanks(t *testing.T) {
	docId := uuid.New()
	semanticOnly := newChunk(docId, 0, "vector similarity text")
	keywordOnly := newChunk(docId, 1, "redis redis redis redis redis redis redis redis redis redis")

	index := &fakeChunkIndex{
		scored:  []*contract.ScoredChunk{{Chunk: semanticOnly, Similarity: 0.9}},
		matches: []*entity.DocumentChunk{keywordOnly},
	}

	engine, err := NewEngine(index, &fakeDocuments{}, &fakeEmbedder{vector: []float32{1}}, Options{SemanticWeight: 0.7, KeywordWeight: 0.3})
	require.NoError(t, err)

	results, err := engine.Hybrid(context.Background(), "redis", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, semanticOnly.Id, results[0].ChunkId)
	assert.Equal(t, 0.63, results[0].CombinedScore)
	assert.Equal(t, keywordOnly.Id, results[1].ChunkId)
	assert.Equal(t, 0.3, results[1].CombinedScore)
}

func TestHybrid_OverlappingChunkGetsBothScores(t *testing.T) {
	docId := uuid.New()
	shared := newChunk(docId, 0, "redis caching layer")

	index := &fakeChunkIndex{
		scored:  []*contract.ScoredChunk{{Chunk: shared, Similarity: 0.8}},
		matches: []*entity.DocumentChunk{shared},
	}

	engine, err := NewEngine(index, &fakeDocuments{}, &fakeEmbedder{vector: []float32{1}}, Options{SemanticWeight: 0.5, KeywordWeight: 0.5})
	require.NoError(t, err)

	results, err := engine.Hybrid(context.Background(), "redis", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// 0.8*0.5 + 0.1*0.5
	assert.Equal(t, 0.45, results[0].CombinedScore)
}

func TestHybrid_WeightScalingInvariance(t *testing.T) {
	docId := uuid.New()
	semanticOnly := newChunk(docId, 0, "vector text")
	keywordOnly := newChunk(docId, 1, "redis")

	run := func(semantic, keyword float64) []Result {
		index := &fakeChunkIndex{
			scored:  []*contract.ScoredChunk{{Chunk: semanticOnly, Similarity: 0.9}},
			matches: []*entity.DocumentChunk{keywordOnly},
		}
		engine, err := NewEngine(index, &fakeDocuments{}, &fakeEmbedder{vector: []float32{1}}, Options{SemanticWeight: semantic, KeywordWeight: keyword})
		require.NoError(t, err)

		results, err := engine.Hybrid(context.Background(), "redis", 5, nil)
		require.NoError(t, err)
		return results
	}

	base := run(0.7, 0.3)
	scaled := run(7, 3)

	require.Equal(t, len(base), len(scaled))
	for i := range base {
		assert.Equal(t, base[i].ChunkId, scaled[i].ChunkId)
		assert.Equal(t, base[i].CombinedScore, scaled[i].CombinedScore)
	}
}

func TestWithContext_AttachesNeighbors(t *testing.T) {
	docId := uuid.New()
	hit := newChunk(docId, 2, "the hit chunk")
	siblings := []*entity.DocumentChunk{
		newChunk(docId, 0, "far before"),
		newChunk(docId, 1, "just before"),
		hit,
		newChunk(docId, 3, "just after"),
	}

	index := &fakeChunkIndex{
		scored:      []*contract.ScoredChunk{{Chunk: hit, Similarity: 0.9}},
		chunksByDoc: map[uuid.UUID][]*entity.DocumentChunk{docId: siblings},
	}

	engine, err := NewEngine(index, &fakeDocuments{}, &fakeEmbedder{vector: []float32{1}}, Options{SemanticWeight: 1, KeywordWeight: 0})
	require.NoError(t, err)

	results, err := engine.WithContext(context.Background(), "hit", 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	neighbors := results[0].Neighbors
	require.Len(t, neighbors, 2)
	assert.Equal(t, 1, neighbors[0].ChunkIndex)
	assert.Equal(t, "before", neighbors[0].Position)
	assert.Equal(t, 3, neighbors[1].ChunkIndex)
	assert.Equal(t, "after", neighbors[1].Position)
}
