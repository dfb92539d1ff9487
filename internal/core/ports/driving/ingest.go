package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
)

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	// Document is the loaded catalog.
	Document domain.Document

	// Fragments is the number of raw fragments the loader produced.
	Fragments int

	// Chunks is the number of chunks embedded and indexed.
	Chunks int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// IngestService builds the in-memory index from the catalog.
type IngestService interface {
	// Ingest loads, segments, chunks, embeds and indexes the file at path.
	Ingest(ctx context.Context, path string) (*IngestReport, error)

	// Preview loads, segments and chunks without embedding.
	// Used to inspect how the catalog is split.
	Preview(ctx context.Context, path string) (*domain.Document, []domain.Chunk, error)
}
