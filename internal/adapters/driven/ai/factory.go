// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/gemini"
	hugotembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/hugot"
	ollamaembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/llm/openai"
	vectormemory "github.com/custodia-labs/catalogo-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// modelLoadTimeout bounds the first hugot Ping, which may download the model.
const modelLoadTimeout = 10 * time.Minute

// InitResult holds the AI services used to build and query the index.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorIndex      driven.VectorIndex
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates and validates both providers and an empty vector index sized for
// the embedding model. The LLM is skipped when withLLM is false.
func Init(ctx context.Context, settings *domain.AppSettings, withLLM bool) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	result.EmbeddingService = embedder

	if withLLM {
		llm, err := CreateAndValidateLLMService(ctx, &settings.LLM)
		if err != nil {
			result.Close()
			return nil, err
		}
		if llm == nil {
			result.Close()
			return nil, fmt.Errorf("%w: LLM provider %q is not configured",
				domain.ErrLLMUnavailable, settings.LLM.Provider)
		}
		result.LLMService = llm
	}

	index, err := vectormemory.New(embedder.Dimensions())
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorIndex = index

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section with 'catalogo settings show'",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, timeoutFor(settings.Provider))
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [embedding] section with 'catalogo settings show'",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [llm] section with 'catalogo settings show'",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [llm] section with 'catalogo settings show'",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFor(settings.Provider))
	defer cancel()

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHugot:
		return hugotembed.NewEmbeddingService(hugotembed.Config{
			Model:    settings.Model,
			CacheDir: settings.BaseURL,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:   settings.APIKey,
			Endpoint: settings.BaseURL,
			Model:    settings.Model,
		})

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:   settings.APIKey,
			Endpoint: settings.BaseURL,
			Model:    settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

func timeoutFor(provider domain.AIProvider) time.Duration {
	if provider == domain.AIProviderHugot {
		return modelLoadTimeout
	}
	return pingTimeout
}
