package searchengine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"ai-docquery-be/internal/entity"
	"ai-docquery-be/internal/repository/contract"
	"ai-docquery-be/internal/repository/specification"
	"ai-docquery-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrInvalidWeights is returned when both fusion weights are zero, there is
// no meaningful way to rank a hybrid result set.
var ErrInvalidWeights = errors.New("searchengine: semantic and keyword weights must not both be zero")

// keyword scoring saturates at this many occurrences
const keywordSaturation = 10.0

// ChunkIndex is the slice of the chunk repository the engine reads from.
type ChunkIndex interface {
	SearchNearestWithScore(ctx context.Context, embedding []float32, limit int, documentId *uuid.UUID) ([]*contract.ScoredChunk, error)
	FindContaining(ctx context.Context, term string, documentId *uuid.UUID, limit int) ([]*entity.DocumentChunk, error)
	FindByDocumentId(ctx context.Context, documentId uuid.UUID) ([]*entity.DocumentChunk, error)
}

// DocumentLookup resolves document metadata for result attribution.
type DocumentLookup interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
}

type Options struct {
	SemanticWeight float64
	KeywordWeight  float64
	MinSimilarity  float64
}

// Engine runs semantic, keyword and hybrid retrieval over the chunk store.
// It is stateless per request and safe for concurrent use; the only shared
// state is a read-through metadata cache.
type Engine struct {
	chunks         ChunkIndex
	documents      DocumentLookup
	embedder       embedding.Provider
	semanticWeight float64
	keywordWeight  float64
	minSimilarity  float64
	docCache       *cache.Cache
}

func NewEngine(chunks ChunkIndex, documents DocumentLookup, embedder embedding.Provider, opts Options) (*Engine, error) {
	total := opts.SemanticWeight + opts.KeywordWeight
	if opts.SemanticWeight < 0 || opts.KeywordWeight < 0 || total == 0 {
		return nil, ErrInvalidWeights
	}

	return &Engine{
		chunks:         chunks,
		documents:      documents,
		embedder:       embedder,
		semanticWeight: opts.SemanticWeight / total,
		keywordWeight:  opts.KeywordWeight / total,
		minSimilarity:  opts.MinSimilarity,
		docCache:       cache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

// Semantic embeds the query and ranks chunks by cosine similarity.
func (e *Engine) Semantic(ctx context.Context, query string, topK int, documentId *uuid.UUID) ([]Result, error) {
	if topK < 1 {
		topK = 1
	}

	queryVector, err := e.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored, err := e.chunks.SearchNearestWithScore(ctx, queryVector, topK*2, documentId)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]Result, 0, topK)
	for _, hit := range scored {
		if hit.Similarity < e.minSimilarity {
			continue
		}
		if len(results) == topK {
			break
		}

		result := e.newResult(ctx, hit.Chunk)
		result.SemanticScore = round4(hit.Similarity)
		results = append(results, result)
	}

	return results, nil
}

// Keyword matches the query as a case-insensitive substring and scores by
// occurrence frequency, saturating at ten occurrences. Results keep the
// store's chunk_index retrieval order.
func (e *Engine) Keyword(ctx context.Context, query string, topK int, documentId *uuid.UUID) ([]Result, error) {
	if topK < 1 {
		topK = 1
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil, nil
	}

	candidates, err := e.chunks.FindContaining(ctx, term, documentId, topK*2)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]Result, 0, topK)
	for _, chunk := range candidates {
		if len(results) == topK {
			break
		}

		occurrences := strings.Count(strings.ToLower(chunk.ChunkText), term)
		result := e.newResult(ctx, chunk)
		result.KeywordScore = math.Min(float64(occurrences)/keywordSaturation, 1.0)
		results = append(results, result)
	}

	return results, nil
}

// Hybrid fuses semantic and keyword retrieval under the configured weights.
// A chunk present on only one side scores zero on the other. Ties keep
// semantic rank order.
func (e *Engine) Hybrid(ctx context.Context, query string, topK int, documentId *uuid.UUID) ([]Result, error) {
	if topK < 1 {
		topK = 1
	}

	semanticResults, err := e.Semantic(ctx, query, topK*2, documentId)
	if err != nil {
		return nil, err
	}

	keywordResults, err := e.Keyword(ctx, query, topK*2, documentId)
	if err != nil {
		return nil, err
	}

	merged := make([]Result, 0, len(semanticResults)+len(keywordResults))
	position := make(map[uuid.UUID]int, len(semanticResults))

	for _, result := range semanticResults {
		position[result.ChunkId] = len(merged)
		merged = append(merged, result)
	}
	for _, result := range keywordResults {
		if idx, seen := position[result.ChunkId]; seen {
			merged[idx].KeywordScore = result.KeywordScore
			continue
		}
		position[result.ChunkId] = len(merged)
		merged = append(merged, result)
	}

	for i := range merged {
		merged[i].CombinedScore = round4(
			merged[i].SemanticScore*e.semanticWeight + merged[i].KeywordScore*e.keywordWeight,
		)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CombinedScore > merged[j].CombinedScore
	})

	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

// WithContext runs hybrid retrieval and attaches up to contextWindow
// neighboring chunks on each side of every hit.
func (e *Engine) WithContext(ctx context.Context, query string, topK, contextWindow int, documentId *uuid.UUID) ([]ContextResult, error) {
	hits, err := e.Hybrid(ctx, query, topK, documentId)
	if err != nil {
		return nil, err
	}

	expanded := make([]ContextResult, 0, len(hits))
	for _, hit := range hits {
		siblings, err := e.chunks.FindByDocumentId(ctx, hit.DocumentId)
		if err != nil {
			return nil, fmt.Errorf("load document chunks: %w", err)
		}

		var neighbors []NeighborChunk
		for _, sibling := range siblings {
			distance := sibling.ChunkIndex - hit.ChunkIndex
			if distance == 0 || distance < -contextWindow || distance > contextWindow {
				continue
			}

			position := "after"
			if distance < 0 {
				position = "before"
			}
			neighbors = append(neighbors, NeighborChunk{
				ChunkIndex: sibling.ChunkIndex,
				Text:       sibling.ChunkText,
				Position:   position,
			})
		}

		expanded = append(expanded, ContextResult{Result: hit, Neighbors: neighbors})
	}

	return expanded, nil
}

func (e *Engine) newResult(ctx context.Context, chunk *entity.DocumentChunk) Result {
	result := Result{
		ChunkId:      chunk.Id,
		DocumentId:   chunk.DocumentId,
		DocumentName: "Unknown",
		Text:         chunk.ChunkText,
		ChunkIndex:   chunk.ChunkIndex,
	}

	if doc := e.lookupDocument(ctx, chunk.DocumentId); doc != nil {
		result.DocumentName = doc.Filename
		result.DocumentType = doc.FileType
		result.UploadedAt = doc.UploadedAt
	}

	return result
}

// lookupDocument reads document metadata through a short-lived cache. A
// missing or unreadable document degrades to nil, attribution falls back to
// "Unknown" instead of failing the search.
func (e *Engine) lookupDocument(ctx context.Context, id uuid.UUID) *entity.Document {
	key := id.String()
	if cached, found := e.docCache.Get(key); found {
		return cached.(*entity.Document)
	}

	doc, err := e.documents.FindOne(ctx, specification.ByID{ID: id})
	if err != nil || doc == nil {
		return nil
	}

	e.docCache.SetDefault(key, doc)
	return doc
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
