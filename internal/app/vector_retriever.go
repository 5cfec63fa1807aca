package app

import (
	"context"
	"fmt"

	"github.com/example/frontdesk/internal/ports/secondary"
)

// VectorRetriever implements secondary.KnowledgeRetriever by embedding the
// question and searching the vector index.
type VectorRetriever struct {
	embedder secondary.Embedder
	index    secondary.VectorIndex
}

// NewVectorRetriever creates a retriever with injected dependencies.
func NewVectorRetriever(embedder secondary.Embedder, index secondary.VectorIndex) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, index: index}
}

// Retrieve returns at most req.TopK results ordered by descending score.
func (r *VectorRetriever) Retrieve(ctx context.Context, req secondary.RetrievalRequest) ([]secondary.RetrievalResult, error) {
	vec, err := r.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.index.Query(ctx, req.Namespace, vec, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge: %w", err)
	}

	results := make([]secondary.RetrievalResult, len(hits))
	for i, h := range hits {
		results[i] = secondary.RetrievalResult{
			ID:       h.ID,
			Score:    h.Score,
			Content:  h.Content,
			Category: h.Category,
			Title:    h.Title,
		}
	}
	return results, nil
}

var _ secondary.KnowledgeRetriever = (*VectorRetriever)(nil)
