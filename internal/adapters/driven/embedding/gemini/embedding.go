// Package gemini provides an embedding service adapter using the Google Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/googleai"
	"github.com/custodia-labs/catalogo-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel = "text-embedding-004"

	// MaxBatchSize is the largest request BatchEmbedContents accepts.
	MaxBatchSize = 100
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Endpoint overrides the API host. Empty uses the public endpoint.
	Endpoint string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string
}

// batchFunc embeds one request worth of texts.
type batchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client     *genai.Client
	model      *genai.EmbeddingModel
	modelName  string
	dimensions int
	limiter    *ratelimit.Limiter
	embedBatch batchFunc
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := googleai.NewClient(ctx, cfg.APIKey, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	s := newService(cfg.Model, nil)
	s.client = client
	s.model = client.EmbeddingModel(cfg.Model)
	s.embedBatch = s.callAPI
	return s, nil
}

func newService(model string, fn batchFunc) *EmbeddingService {
	dims, ok := domain.EmbeddingDimensions()[model]
	if !ok {
		dims = 768
	}
	return &EmbeddingService{
		modelName:  model,
		dimensions: dims,
		limiter:    ratelimit.For(domain.AIProviderGemini),
		embedBatch: fn,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
// Inputs larger than MaxBatchSize are split across several requests.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(texts))

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		vectors, err := s.embedBatch(ctx, texts[start:end])
		if err != nil {
			if googleai.IsRateLimited(err) {
				s.limiter.Backoff(0)
			}
			return nil, fmt.Errorf("%w: gemini: %w", domain.ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: gemini returned %d embeddings for %d texts",
				domain.ErrEmbeddingUnavailable, len(vectors), end-start)
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (s *EmbeddingService) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	batch := s.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := s.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("empty embedding at %d", i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.modelName
}

// Ping fetches model metadata, which checks the key without embedding anything.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if s.model == nil {
		return nil
	}
	if _, err := s.model.Info(ctx); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *EmbeddingService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
