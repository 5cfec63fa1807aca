package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/frontdesk/internal/core/corpus"
	"github.com/example/frontdesk/internal/ports/primary"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// ingestConcurrency bounds the embedding batches in flight.
const ingestConcurrency = 4

// CorpusOpener returns the corpus store for a file path.
type CorpusOpener func(path string) secondary.CorpusStore

// IngestConfig holds the defaults of an ingestion run.
type IngestConfig struct {
	CorpusPath string
	Namespace  string
	BatchSize  int
}

// IngestServiceImpl implements the IngestService interface.
type IngestServiceImpl struct {
	open     CorpusOpener
	embedder secondary.Embedder
	index    secondary.VectorIndex
	cfg      IngestConfig
	logger   *zap.Logger
}

// NewIngestService creates a new IngestService with injected dependencies.
func NewIngestService(open CorpusOpener, embedder secondary.Embedder, index secondary.VectorIndex, cfg IngestConfig, logger *zap.Logger) *IngestServiceImpl {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestServiceImpl{open: open, embedder: embedder, index: index, cfg: cfg, logger: logger}
}

// Ingest rebuilds the namespace from the corpus file. Batches that fail to
// embed or store are counted, not fatal.
func (s *IngestServiceImpl) Ingest(ctx context.Context, req primary.IngestRequest) (*primary.IngestResponse, error) {
	path := req.Path
	if path == "" {
		path = s.cfg.CorpusPath
	}
	namespace := req.Namespace
	if namespace == "" {
		namespace = s.cfg.Namespace
	}
	log := s.logger.With(zap.String("namespace", namespace), zap.String("corpus", path))

	text, err := s.open(path).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	sections := corpus.SplitSections(text)
	if len(sections) == 0 {
		return nil, fmt.Errorf("corpus %s has no content", path)
	}
	log.Info("corpus split into sections", zap.Int("sections", len(sections)))

	if err := s.index.Reset(ctx, namespace); err != nil {
		log.Warn("failed to reset namespace", zap.Error(err))
	}

	var inserted, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)
	for start := 0; start < len(sections); start += s.cfg.BatchSize {
		batch := sections[start:min(start+s.cfg.BatchSize, len(sections))]
		g.Go(func() error {
			if err := s.ingestBatch(gctx, namespace, batch); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(int64(len(batch)))
				log.Error("failed to ingest batch", zap.Int("size", len(batch)), zap.Error(err))
				return nil
			}
			inserted.Add(int64(len(batch)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingestion interrupted: %w", err)
	}

	resp := &primary.IngestResponse{
		Namespace: namespace,
		Sections:  len(sections),
		Inserted:  int(inserted.Load()),
		Failed:    int(failed.Load()),
	}
	log.Info("ingestion complete", zap.Int("inserted", resp.Inserted), zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *IngestServiceImpl) ingestBatch(ctx context.Context, namespace string, batch []corpus.Section) error {
	texts := make([]string, len(batch))
	for i, sec := range batch {
		texts[i] = sec.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embed: got %d vectors for %d sections", len(embeddings), len(batch))
	}

	vectors := make([]secondary.VectorRecord, len(batch))
	for i, sec := range batch {
		vectors[i] = secondary.VectorRecord{
			ID:        ContentID(sec.Content),
			Title:     sec.Title,
			Category:  sec.Category,
			Content:   sec.Content,
			Embedding: embeddings[i],
		}
	}

	if err := s.index.Upsert(ctx, namespace, vectors); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

var _ primary.IngestService = (*IngestServiceImpl)(nil)
