package secondary

import "context"

// KnowledgeRetriever finds salon knowledge relevant to a caller question.
type KnowledgeRetriever interface {
	// Retrieve returns at most req.TopK results ordered by descending score.
	Retrieve(ctx context.Context, req RetrievalRequest) ([]RetrievalResult, error)
}

// RetrievalRequest describes one knowledge lookup.
type RetrievalRequest struct {
	Query     string
	TopK      int
	Namespace string
}

// RetrievalResult is one retrieved piece of knowledge. Score is in [0,1].
type RetrievalResult struct {
	ID       string
	Score    float64
	Content  string
	Category string
	Title    string
}

// VectorIndex defines the secondary port for the salon knowledge store.
type VectorIndex interface {
	// Upsert inserts or replaces vectors by (namespace, id).
	Upsert(ctx context.Context, namespace string, vectors []VectorRecord) error

	// Query returns the topK vectors most similar to embedding, best first.
	Query(ctx context.Context, namespace string, embedding []float32, topK int) ([]ScoredVector, error)

	// Reset removes every vector in the namespace.
	Reset(ctx context.Context, namespace string) error

	// Count returns the number of vectors in the namespace.
	Count(ctx context.Context, namespace string) (int, error)
}

// VectorRecord is one embedded unit of knowledge.
type VectorRecord struct {
	ID        string
	Title     string
	Category  string
	Content   string
	Embedding []float32
}

// ScoredVector is a query hit with its cosine similarity.
type ScoredVector struct {
	VectorRecord
	Score float64
}

// Embedder turns text into vectors.
type Embedder interface {
	// EmbedQuery embeds a caller question.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments embeds knowledge text for storage, one vector per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Synthesizer phrases a caller-facing answer from retrieved context.
type Synthesizer interface {
	// Synthesize returns the answer text, or "" when the model produced none.
	Synthesize(ctx context.Context, question, grounding string) (string, error)
}

// CorpusStore defines the secondary port for the raw knowledge text file.
type CorpusStore interface {
	// Read returns the full corpus text.
	Read(ctx context.Context) (string, error)

	// Append adds text to the end of the corpus.
	Append(ctx context.Context, text string) error
}
