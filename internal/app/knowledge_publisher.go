package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/core/corpus"
	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// knowledgeIDSpace namespaces the name-based UUIDs of knowledge vectors.
var knowledgeIDSpace = uuid.MustParse("6f1c5d1e-3b7a-4d0e-9a51-0c2f8e7b4a90")

// ContentID returns the deterministic vector id for a piece of knowledge.
// Re-publishing identical text overwrites instead of duplicating.
func ContentID(text string) string {
	return uuid.NewSHA1(knowledgeIDSpace, []byte(text)).String()
}

// Publication targets used as the PublishFailures label.
const (
	targetCorpus = "corpus"
	targetIndex  = "index"
)

// KnowledgePublisher teaches resolved answers to the knowledge base.
type KnowledgePublisher struct {
	corpus    secondary.CorpusStore
	embedder  secondary.Embedder
	index     secondary.VectorIndex
	namespace string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewKnowledgePublisher creates a publisher with injected dependencies.
func NewKnowledgePublisher(
	corpusStore secondary.CorpusStore,
	embedder secondary.Embedder,
	index secondary.VectorIndex,
	namespace string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *KnowledgePublisher {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgePublisher{
		corpus:    corpusStore,
		embedder:  embedder,
		index:     index,
		namespace: namespace,
		metrics:   m,
		logger:    logger,
	}
}

// Publish appends the Q/A fact to the corpus and upserts its embedding.
// Both targets are attempted; their failures are joined.
func (p *KnowledgePublisher) Publish(ctx context.Context, question, answer string) error {
	fact := corpus.FormatQA(question, answer)

	var errs []error
	if err := p.corpus.Append(ctx, corpus.AppendBlock(question, answer)); err != nil {
		p.metrics.PublishFailures.WithLabelValues(targetCorpus).Inc()
		errs = append(errs, fmt.Errorf("corpus append: %w", err))
	}

	if err := p.upsert(ctx, question, fact); err != nil {
		p.metrics.PublishFailures.WithLabelValues(targetIndex).Inc()
		errs = append(errs, fmt.Errorf("index upsert: %w", err))
	}

	if len(errs) == 0 {
		p.logger.Info("published supervisor answer", zap.String("vector_id", ContentID(fact)))
	}
	return errors.Join(errs...)
}

func (p *KnowledgePublisher) upsert(ctx context.Context, question, fact string) error {
	vectors, err := p.embedder.EmbedDocuments(ctx, []string{fact})
	if err != nil {
		return err
	}
	if len(vectors) != 1 {
		return fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	return p.index.Upsert(ctx, p.namespace, []secondary.VectorRecord{{
		ID:        ContentID(fact),
		Title:     question,
		Category:  corpus.LearnedCategory,
		Content:   fact,
		Embedding: vectors[0],
	}})
}
