// Package app assembles the catalog assistant from settings: it selects a
// loader, builds the post-processor pipeline, creates the AI providers and
// ingests the catalog into a fresh in-memory index.
package app

import (
	"context"
	"fmt"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/catalogo-cli/internal/core/services"
	"github.com/custodia-labs/catalogo-cli/internal/loaders"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/fitz"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/ocr"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/pdftotext"
	"github.com/custodia-labs/catalogo-cli/internal/loaders/text"
	"github.com/custodia-labs/catalogo-cli/internal/logger"
	"github.com/custodia-labs/catalogo-cli/internal/postprocessors"
)

// InitAIFunc creates the embedding service, LLM and vector index.
type InitAIFunc func(ctx context.Context, settings *domain.AppSettings, withLLM bool) (*ai.InitResult, error)

// Options controls how the runtime is assembled.
type Options struct {
	// WithLLM creates the answering model. Retrieval-only commands leave it off.
	WithLLM bool

	// Loaders overrides the loader registry (default: DefaultLoaders).
	Loaders *loaders.Registry

	// InitAI overrides provider creation (default: ai.Init).
	InitAI InitAIFunc
}

// Runtime is the ready-to-query assistant.
type Runtime struct {
	Settings domain.AppSettings
	Ingest   driving.IngestService
	Ask      *services.AskService
	Store    driven.DocumentStore
	Index    driven.VectorIndex
	Report   *driving.IngestReport

	ai *ai.InitResult
}

// Close releases the AI providers and the index.
func (r *Runtime) Close() {
	if r != nil && r.ai != nil {
		r.ai.Close()
	}
}

// DefaultLoaders registers every loader. MuPDF and pdftotext fall back to
// each other, so a build without cgo still reads PDFs when poppler is installed.
func DefaultLoaders() *loaders.Registry {
	r := loaders.NewRegistry()
	r.Register(domain.LoaderPDFToText, pdftotext.New())
	r.Register(domain.LoaderFitz, fitz.New())
	r.Register(domain.LoaderOCR, ocr.New())
	r.Register(domain.LoaderText, text.New())
	r.SetFallback(domain.LoaderFitz, domain.LoaderPDFToText)
	r.SetFallback(domain.LoaderPDFToText, domain.LoaderFitz)
	return r
}

// Pipeline builds the segment-then-chunk pipeline from config.
func Pipeline(cfg domain.PipelineConfig) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	return postprocessors.Build(registry, cfg)
}

// Preview loads and splits the catalog without touching any AI provider.
func Preview(ctx context.Context, settings domain.AppSettings, pipelineCfg domain.PipelineConfig, registry *loaders.Registry) (*domain.Document, []domain.Chunk, error) {
	if registry == nil {
		registry = DefaultLoaders()
	}
	loader, err := registry.Select(settings.Document.Loader)
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := Pipeline(pipelineCfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewIngestService(loader, pipeline, nil, nil, nil).Preview(ctx, settings.Document.Path)
}

// Start creates the providers and indexes the catalog.
// The returned runtime must be closed by the caller.
func Start(
	ctx context.Context,
	settings domain.AppSettings,
	pipelineCfg domain.PipelineConfig,
	prompts driven.PromptStore,
	opts Options,
) (*Runtime, error) {
	if opts.Loaders == nil {
		opts.Loaders = DefaultLoaders()
	}
	if opts.InitAI == nil {
		opts.InitAI = ai.Init
	}

	loader, err := opts.Loaders.Select(settings.Document.Loader)
	if err != nil {
		return nil, fmt.Errorf("select loader: %w", err)
	}
	// Fail on a missing file before any model is downloaded or pinged.
	if err := loaders.CheckFile(settings.Document.Path); err != nil {
		return nil, err
	}

	pipeline, err := Pipeline(pipelineCfg)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	logger.Debug("Pipeline: %v", pipeline.Names())

	aiResult, err := opts.InitAI(ctx, &settings, opts.WithLLM)
	if err != nil {
		return nil, err
	}

	store := memory.NewDocumentStore()
	ingest := services.NewIngestService(loader, pipeline, aiResult.EmbeddingService, aiResult.VectorIndex, store)

	report, err := ingest.Ingest(ctx, settings.Document.Path)
	if err != nil {
		aiResult.Close()
		return nil, err
	}

	ask := services.NewAskService(aiResult.EmbeddingService, aiResult.VectorIndex, store, aiResult.LLMService, prompts)
	ask.SetDefaultK(settings.Retrieval.K)

	return &Runtime{
		Settings: settings,
		Ingest:   ingest,
		Ask:      ask,
		Store:    store,
		Index:    aiResult.VectorIndex,
		Report:   report,
		ai:       aiResult,
	}, nil
}
