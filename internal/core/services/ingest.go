package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbedBatchSize is how many chunks are sent per embedding request.
const DefaultEmbedBatchSize = 32

// IngestService turns the catalog file into indexed chunks.
type IngestService struct {
	loader    driven.DocumentLoader
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	docStore  driven.DocumentStore
	batchSize int
	now       func() time.Time
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	loader driven.DocumentLoader,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		loader:    loader,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		docStore:  docStore,
		batchSize: DefaultEmbedBatchSize,
		now:       time.Now,
	}
}

// SetBatchSize changes the embedding batch size. Non-positive values are ignored.
func (s *IngestService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Ingest loads, segments, chunks, embeds and indexes the file at path.
func (s *IngestService) Ingest(ctx context.Context, path string) (*driving.IngestReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	start := s.now()
	logger.Section("Ingest")

	doc, fragments, chunks, err := s.prepare(ctx, path)
	if err != nil {
		return nil, err
	}

	if len(chunks) > 0 {
		logger.Info("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())
		if err := s.embed(ctx, chunks); err != nil {
			return nil, err
		}
	}

	if s.docStore != nil {
		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("save document: %w", err)
		}
		if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("save chunks: %w", err)
		}
	}

	for _, chunk := range chunks {
		if err := s.index.Add(ctx, chunk.ID, chunk.Embedding); err != nil {
			return nil, fmt.Errorf("add vector: %w", err)
		}
	}

	report := &driving.IngestReport{
		Document:  *doc,
		Fragments: fragments,
		Chunks:    len(chunks),
		Duration:  s.now().Sub(start),
	}
	logger.Info("Indexed %d chunks in %s", report.Chunks, report.Duration.Round(time.Millisecond))
	return report, nil
}

// Preview loads, segments and chunks without embedding.
func (s *IngestService) Preview(ctx context.Context, path string) (*domain.Document, []domain.Chunk, error) {
	doc, _, chunks, err := s.prepare(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return doc, chunks, nil
}

func (s *IngestService) prepare(ctx context.Context, path string) (*domain.Document, int, []domain.Chunk, error) {
	if s.loader == nil {
		return nil, 0, nil, domain.ErrExtractorUnavailable
	}

	logger.Info("Loading %s with %s", path, s.loader.Name())
	fragments, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("Loaded %d fragments", len(fragments))

	doc := s.newDocument(path, fragments)

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("post-process: %w", err)
	}
	if len(chunks) == 0 {
		logger.Warn("No product records found in %s", path)
	}
	logger.Info("Split into %d chunks", len(chunks))

	return doc, len(fragments), chunks, nil
}

func (s *IngestService) newDocument(path string, fragments []domain.RawFragment) *domain.Document {
	pages := 0
	for _, f := range fragments {
		if f.Page > pages {
			pages = f.Page
		}
	}
	base := filepath.Base(path)
	return &domain.Document{
		ID:       uuid.New().String(),
		URI:      path,
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Content:  domain.JoinFragments(fragments),
		Pages:    pages,
		Metadata: map[string]any{"loader": s.loader.Name(), "fragments": len(fragments)},
		LoadedAt: s.now(),
	}
}

// embed fills chunk embeddings in batches.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))

		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = chunks[start+i].Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("%w: %d vectors for %d texts", domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
		}
		for i, v := range vectors {
			chunks[start+i].Embedding = v
		}
		logger.Debug("Embedded %d/%d", end, len(chunks))
	}
	return nil
}
