package primary

import "context"

// IngestService defines the primary port for (re)building the knowledge base.
type IngestService interface {
	// Ingest replaces the namespace contents with the corpus file at path.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error)
}

// IngestRequest contains parameters for an ingestion run.
type IngestRequest struct {
	Path      string // Optional; defaults to the configured corpus
	Namespace string // Optional; defaults to the configured namespace
}

// IngestResponse summarizes an ingestion run.
type IngestResponse struct {
	Namespace string
	Sections  int
	Inserted  int
	Failed    int
}
