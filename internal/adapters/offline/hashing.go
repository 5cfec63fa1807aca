package offline

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/example/frontdesk/internal/ports/secondary"
)

// HashingEmbedder embeds text as an L2-normalized, feature-hashed bag of
// content words. Texts that share vocabulary get high cosine similarity.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates an embedder producing vectors of dims entries.
func NewHashingEmbedder(dims int) (*HashingEmbedder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("hashing embedder dimensions must be positive, got %d", dims)
	}
	return &HashingEmbedder{dims: dims}, nil
}

// EmbedQuery embeds a caller question.
func (e *HashingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedDocuments embeds knowledge text, one vector per input.
func (e *HashingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *HashingEmbedder) embed(text string) []float32 {
	vec := make([]float64, e.dims)
	for _, tok := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		sign := 1.0
		if sum>>63 == 1 {
			sign = -1.0
		}
		vec[sum%uint64(e.dims)] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dims)
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

var _ secondary.Embedder = (*HashingEmbedder)(nil)
